package affinity

import "github.com/plataforma-iris/iris/pkg/politics"

// ReferenceVotes maps the names of the reference deputy set to their votes on
// the survey questions, positionally aligned with Questions(). The empty
// value means no recorded vote (treated as absent).
func ReferenceVotes() map[string][]politics.VoteValue {
	sim, nao := politics.VoteSim, politics.VoteNao
	none := politics.VoteValue("")

	return map[string][]politics.VoteValue{
		"Nikolas Ferreira":      {none, sim, nao, nao, sim, nao},
		"Guilherme Boulos":      {nao, nao, sim, nao, nao, sim},
		"Ricardo Salles":        {sim, none, nao, nao, none, nao},
		"Tabata Amaral":         {nao, nao, sim, sim, nao, sim},
		"Celso Russomanno":      {none, sim, sim, sim, sim, sim},
		"Kim Kataguiri":         {sim, sim, sim, nao, nao, nao},
		"Amom Mandel":           {nao, nao, sim, sim, nao, sim},
		"Erika Hilton":          {nao, nao, sim, nao, nao, sim},
		"Delegado Palumbo":      {sim, sim, nao, nao, nao, nao},
		"Hercílio Coelho Diniz": {sim, nao, sim, sim, sim, sim},
	}
}
