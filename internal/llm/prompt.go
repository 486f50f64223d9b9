package llm

import "strings"

// BuildCredibilityPrompt returns the instruction sent to the remote judge.
// The requested JSON shape is advisory; replies are parsed leniently.
func BuildCredibilityPrompt(title, source, text string) string {
	if strings.TrimSpace(title) == "" {
		title = "Unknown title"
	}
	if strings.TrimSpace(source) == "" {
		source = "Unknown source"
	}

	return `You are FactVerifier, an advanced AI tool for news article analysis.

ARTICLE INFORMATION:
Title: ` + title + `
Source: ` + source + `
Content: ` + text + `

TASK:
Please analyze this news article for credibility and provide:

1. A credibility score from 1-10 (1=completely false, 10=highly credible)
2. Detailed reasoning for your assessment (identify potential misinformation, bias, factual claims)
3. Recommendations for how a reader should interpret this information

FORMAT YOUR RESPONSE IN THIS EXACT JSON STRUCTURE:
{
  "credibility_score": [number between 1-10],
  "reasoning": "[your detailed analysis]",
  "recommendations": "[specific guidance for readers]"
}
`
}

// ProbePrompt is the fixed connectivity check message.
const ProbePrompt = "Respond with only the text 'Connection successful' if you can read this message."
