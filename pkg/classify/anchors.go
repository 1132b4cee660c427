package classify

import "github.com/plataforma-iris/iris/pkg/politics"

// axisKeywords drives the deterministic keyword pass. Occurrences are counted
// as lowercase substrings.
var axisKeywords = map[politics.Axis][]string{
	politics.AxisEconomic:       {"imposto", "privatiza", "subsídio", "estado", "tributo", "mercado"},
	politics.AxisSocial:         {"família", "aborto", "diversidade", "ideologia", "tradição", "educação sexual"},
	politics.AxisAuthoritarian:  {"governabilidade", "ordem", "segurança", "força", "militarização", "poder executivo"},
	politics.AxisEnvironmental:  {"meio ambiente", "licenciamento", "desmatamento", "amazônia", "sustentável"},
	politics.AxisCentralization: {"municipal", "federal", "autonomia", "comunidade", "ong", "governo local"},
}

// One canonical anchor pair per axis. The eixo_anchors table may carry
// additional reference anchors, but the basis is always built from these.
var anchorPositive = map[politics.Axis]string{
	politics.AxisEconomic:       "redução da intervenção estatal e defesa do livre mercado",
	politics.AxisSocial:         "defesa de direitos civis e políticas progressistas",
	politics.AxisAuthoritarian:  "defesa de instituições democráticas e separação de poderes",
	politics.AxisEnvironmental:  "priorizar a proteção ambiental frente a projetos degradantes",
	politics.AxisCentralization: "valorização de soluções comunitárias e locais",
}

var anchorNegative = map[politics.Axis]string{
	politics.AxisEconomic:       "forte papel do Estado na economia e proteção de indústrias",
	politics.AxisSocial:         "preservação de valores e costumes tradicionais",
	politics.AxisAuthoritarian:  "maior concentração de poder executivo para governabilidade",
	politics.AxisEnvironmental:  "priorizar desenvolvimento econômico sobre restrições ambientais",
	politics.AxisCentralization: "centralização estatal para coordenar políticas",
}

// Anchors returns the canonical anchor pairs, useful for seeding the
// reference table.
func Anchors() []politics.AxisAnchor {
	out := make([]politics.AxisAnchor, 0, 2*len(politics.Axes()))
	for _, axis := range politics.Axes() {
		out = append(out,
			politics.AxisAnchor{Axis: axis, Polarity: politics.PolarityPositive, Text: anchorPositive[axis]},
			politics.AxisAnchor{Axis: axis, Polarity: politics.PolarityNegative, Text: anchorNegative[axis]},
		)
	}
	return out
}
