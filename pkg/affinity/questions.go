package affinity

// Question is one voting event of the fixed survey, with the plain-language
// briefing shown to users before they vote.
type Question struct {
	ID               int      `json:"id"`
	Order            int      `json:"order"`
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	CurrentContext   string   `json:"current_context"`
	ProposedChanges  string   `json:"proposed_changes"`
	ArgumentsFor     []string `json:"arguments_for"`
	ArgumentsAgainst []string `json:"arguments_against"`
}

// Questions returns the fixed survey question set in order.
func Questions() []Question {
	return questions
}

var questions = []Question{
	{
		ID:              1,
		Order:           1,
		Title:           "Demarcação de Terras Indígenas",
		Summary:         "Um projeto que muda as regras para criar reservas indígenas no Brasil. A proposta diz que só podem virar terra indígena os locais onde havia índios morando no dia 5 de outubro de 1988.",
		CurrentContext:  "Atualmente, terras tradicionalmente ocupadas por povos indígenas podem ser demarcadas mesmo que tenham sido invadidas ou que os índios tenham sido expulsos antes de 1988.",
		ProposedChanges: "Só poderiam virar reservas indígenas as terras onde havia índios morando em 5 de outubro de 1988. Terras onde os índios foram expulsos antes dessa data não poderiam mais ser demarcadas. Forças de segurança e obras poderiam entrar em terras indígenas sem consultar as comunidades.",
		ArgumentsFor: []string{
			"Daria mais segurança para proprietários rurais sobre suas terras",
			"Permitiria usar essas áreas para agricultura e mineração",
			"Seguiria uma data fixa e clara (Constituição de 1988)",
		},
		ArgumentsAgainst: []string{
			"Prejudicaria povos que foram expulsos de suas terras por conflitos",
			"Violaria direitos históricos dos povos indígenas",
			"Contrariaria tratados internacionais que o Brasil assinou",
			"Colocaria em risco a cultura e sobrevivência indígena",
		},
	},
	{
		ID:              2,
		Order:           2,
		Title:           "Licenciamento Ambiental",
		Summary:         "Um projeto que muda as regras para conseguir autorização para obras e atividades que podem afetar o meio ambiente.",
		CurrentContext:  "Para fazer obras que podem impactar a natureza, é preciso pedir autorização aos órgãos ambientais, que avaliam os riscos e podem aprovar, negar ou pedir mudanças no projeto.",
		ProposedChanges: "Processos mais rápidos com prazos menores para análise. Algumas atividades ficariam dispensadas de licenciamento (como ampliação de estradas, pequenas fazendas, tratamento de água). Criação da \"Licença Especial\" para obras consideradas estratégicas, mesmo com alto impacto ambiental.",
		ArgumentsFor: []string{
			"Reduziria burocracia e custos para empresas",
			"Agilizaria obras importantes para o desenvolvimento",
			"Atrairia mais investimentos para o país",
			"Simplificaria regras confusas e contraditórias",
		},
		ArgumentsAgainst: []string{
			"Enfraqueceria a proteção ao meio ambiente",
			"Aumentaria o risco de poluição e desmatamento",
			"Reduziria controle sobre atividades perigosas",
			"Prejudicaria comunidades que vivem próximas a grandes obras",
		},
	},
	{
		ID:              3,
		Order:           3,
		Title:           "Reforma Tributária",
		Summary:         "Uma mudança grande no sistema de impostos brasileiro, substituindo cinco impostos diferentes por dois impostos únicos sobre consumo.",
		CurrentContext:  "Existem vários impostos sobre produtos e serviços (IPI, PIS, Cofins, ICMS, ISS) com regras diferentes em cada estado e município, tornando o sistema complexo.",
		ProposedChanges: "Os cinco impostos atuais virariam apenas dois: um federal e outro estadual/municipal. Regras iguais para todo o Brasil. Produtos da cesta básica ficariam sem imposto. Cigarros, bebidas e outros produtos prejudiciais à saúde teriam imposto extra.",
		ArgumentsFor: []string{
			"Simplificaria muito o sistema de impostos",
			"Acabaria com a \"guerra fiscal\" entre estados",
			"Tornaria os preços mais transparentes para o consumidor",
			"Facilitaria a vida das empresas e do comércio",
		},
		ArgumentsAgainst: []string{
			"Poderia aumentar impostos em alguns setores",
			"Estados e municípios perderiam autonomia para definir impostos",
			"Pequenas empresas poderiam ser prejudicadas",
			"Mudança muito grande pode gerar problemas na transição",
		},
	},
	{
		ID:              4,
		Order:           4,
		Title:           "Controle de Gastos Públicos",
		Summary:         "Novas regras para controlar quanto o governo pode gastar e se endividar, substituindo o \"teto de gastos\" anterior.",
		CurrentContext:  "O governo federal precisa seguir regras para não gastar mais do que arrecada e não se endividar demais, mas as regras atuais estão sendo questionadas.",
		ProposedChanges: "Criaria novos limites e controles para os gastos do governo. Estabeleceria \"gatilhos\" que cortariam gastos automaticamente se necessário. Permitiria alguns aumentos de gastos em situações específicas.",
		ArgumentsFor: []string{
			"Garantiria responsabilidade com o dinheiro público",
			"Controlaria a inflação e estabilizaria a economia",
			"Daria confiança para investidores",
			"Evitaria crise fiscal no futuro",
		},
		ArgumentsAgainst: []string{
			"Limitaria investimentos em áreas importantes como saúde e educação",
			"Poderia dificultar respostas a crises econômicas",
			"Restringiria programas sociais",
			"Priorizaria interesses financeiros sobre necessidades da população",
		},
	},
	{
		ID:              5,
		Order:           5,
		Title:           "Proteção de Deputados e Senadores",
		Summary:         "Mudanças nas regras para prender deputados e senadores ou abrir processos criminais contra eles.",
		CurrentContext:  "Deputados e senadores têm algumas proteções especiais (imunidades), mas podem ser presos e processados em certas situações, especialmente por crimes graves.",
		ProposedChanges: "Seria mais difícil prender deputados e senadores. O Congresso teria mais poder para autorizar ou não investigações. Aumentaria as proteções contra processos judiciais.",
		ArgumentsFor: []string{
			"Protegeria parlamentares de perseguições políticas",
			"Garantiria independência do Congresso",
			"Evitaria uso político da Justiça contra opositores",
			"Preservaria a separação entre os poderes",
		},
		ArgumentsAgainst: []string{
			"Dificultaria combate à corrupção",
			"Criaria privilégios excessivos para políticos",
			"Enfraqueceria a Justiça e investigações",
			"Geraria impunidade para crimes graves",
		},
	},
	{
		ID:              6,
		Order:           6,
		Title:           "Cotas Raciais em Concursos Públicos",
		Summary:         "Ampliação das cotas raciais para concursos públicos federais, aumentando a porcentagem de vagas reservadas.",
		CurrentContext:  "Desde 2014, 20% das vagas em concursos federais são reservadas para pessoas negras (pretas e pardas).",
		ProposedChanges: "Aumentaria de 20% para 30% as vagas reservadas. Incluiria também indígenas e quilombolas nas cotas. Valeria para qualquer concurso com 2 ou mais vagas. Sistema de autodeclaração racial.",
		ArgumentsFor: []string{
			"Corrigiria desigualdades históricas no serviço público",
			"Aumentaria representatividade de grupos marginalizados",
			"Democratizaria acesso a cargos públicos",
			"Promoveria justiça social e reparação histórica",
		},
		ArgumentsAgainst: []string{
			"Poderia prejudicar candidatos por critérios raciais",
			"Questionamentos sobre autodeclaração e fraudes",
			"Mérito individual deveria ser o único critério",
			"Geraria divisões e conflitos raciais",
		},
	},
}
