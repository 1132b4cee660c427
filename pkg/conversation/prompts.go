package conversation

// SystemBiography is the canned self-introduction. It is returned verbatim,
// never generated.
const SystemBiography = "Eu sou " + AssistantName + ", uma assistente de análise política automatizada.\n\n" +
	"- Posso explicar e definir termos técnicos, jurídicos e políticos;\n" +
	"- Fornecer contexto sobre pessoas envolvidas com política quando houver dados;\n" +
	"- Consultar a base de dados do sistema para fatos e votações e citar as fontes encontradas;\n" +
	"- Ser transparente sobre limitações: não invento fatos."

// Apology is returned when generation fails with no grounding to fall back
// on.
const Apology = "Desculpe, não consegui gerar uma resposta no momento. Por favor, tente novamente em instantes."

// groundingMarker labels grounding text inside prompts; the response
// validator keys on it to require lexical overlap.
const groundingMarker = "TEXT_TO_PARAPHRASE:"

func paraphrasePrompt(grounding string) string {
	return "Reescreva em português, em 1-2 frases, o texto factual abaixo SEM ADICIONAR INFORMAÇÕES. " +
		"Retorne apenas o texto sem cabeçalhos.\n\n" +
		groundingMarker + "\n" + grounding + "\n\n" +
		"RETORNE APENAS O TEXTO PARAFRASEADO."
}

func explainPrompt(grounding string) string {
	return "Componha uma explicação clara, em português, com base apenas no texto abaixo. " +
		"Não adicione informações. Retorne apenas o parágrafo final sem cabeçalhos.\n\n" +
		groundingMarker + "\n" + grounding + "\n\n" +
		"RETORNE APENAS O TEXTO PARAFRASEADO."
}

func summarizePrompt(grounding string) string {
	return "Resuma, em português, em linguagem clara e objetiva, com base apenas no texto abaixo. " +
		"Não adicione informações. Retorne apenas o parágrafo final sem cabeçalhos.\n\n" +
		groundingMarker + "\n" + grounding + "\n\n" +
		"RETORNE APENAS O TEXTO."
}

func definitionPrompt(query string) string {
	return "Explique claramente, em português, o conceito abaixo. " +
		"Use conhecimento geral do modelo para responder de forma completa.\n\n" +
		"CONCEITO: " + query + "\n\nRETORNE APENAS O TEXTO."
}

func generalPrompt(query string) string {
	return "Responda de forma completa e informativa, em português, à pergunta abaixo usando conhecimento geral do modelo.\n\n" +
		"PERGUNTA: " + query + "\n\nRETORNE APENAS O TEXTO."
}
