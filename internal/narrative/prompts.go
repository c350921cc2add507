package narrative

import (
	"sort"
	"strconv"
	"strings"

	"coinsight/internal/domain"
)

// systemInstruction is sent with every chat-completion request on backends
// that support a system role.
const systemInstruction = "You are a professional cryptocurrency analyst specializing in both technical and fundamental analysis. Provide detailed, data-driven insights without disclosures or disclaimers."

const formatInstruction = "Format the response in a clear, professional structure with headers for each section. Do not include any disclaimers or reminders that this is AI-generated content."

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// buildTechnicalPrompt embeds the asset's market snapshot and asks for a
// sectioned technical write-up ending in an explicit recommendation.
func buildTechnicalPrompt(crypto *domain.CryptocurrencyDetails, timeframe string) string {
	var b strings.Builder
	b.WriteString("Provide a detailed technical analysis for " + crypto.Name + " (" + crypto.Symbol + ") with the following data:\n")
	b.WriteString("- Current Price: $" + formatFloat(crypto.Price) + "\n")
	b.WriteString("- Market Cap: $" + formatFloat(crypto.MarketCap) + "\n")
	b.WriteString("- 24h Volume: $" + formatFloat(crypto.Volume24h) + "\n")
	b.WriteString("- 24h Change: " + formatFloat(crypto.ChangePercentage24h) + "%\n")

	if len(crypto.PriceChange) > 0 {
		b.WriteString("- Price Changes:\n")
		periods := make([]string, 0, len(crypto.PriceChange))
		for period := range crypto.PriceChange {
			periods = append(periods, period)
		}
		sort.Strings(periods)
		for _, period := range periods {
			b.WriteString("  - " + period + ": " + formatFloat(crypto.PriceChange[period]) + "%\n")
		}
	}

	b.WriteString("Timeframe for analysis: " + timeframe + "\n")
	b.WriteString("Include the following in your analysis:\n")
	b.WriteString("1. A summary of the current technical situation\n")
	b.WriteString("2. Key support and resistance levels\n")
	b.WriteString("3. Technical indicators (RSI, MACD, Moving Averages, etc.)\n")
	b.WriteString("4. Volume analysis\n")
	b.WriteString("5. An overall trend direction assessment\n")
	b.WriteString("6. A clear recommendation (Buy, Sell, Hold)\n")
	b.WriteString(formatInstruction)
	return b.String()
}

// buildFundamentalPrompt embeds supply figures, tags, and the project
// description and asks for the eight fundamental sections.
func buildFundamentalPrompt(crypto *domain.CryptocurrencyDetails) string {
	var b strings.Builder
	b.WriteString("Provide a detailed fundamental analysis for " + crypto.Name + " (" + crypto.Symbol + ") with the following data:\n")
	b.WriteString("- Current Price: $" + formatFloat(crypto.Price) + "\n")
	b.WriteString("- Market Cap: $" + formatFloat(crypto.MarketCap) + "\n")
	b.WriteString("- Circulating Supply: " + formatFloat(crypto.CirculatingSupply) + "\n")
	b.WriteString("- Total Supply: " + formatFloat(crypto.TotalSupply) + "\n")
	b.WriteString("- Max Supply: " + formatFloat(crypto.MaxSupply) + "\n")

	if len(crypto.Tags) > 0 {
		b.WriteString("- Tags/Categories:\n")
		for _, tag := range crypto.Tags {
			b.WriteString("  - " + tag + "\n")
		}
	}

	b.WriteString("- Project Description: " + crypto.Description + "\n")
	b.WriteString("Include the following in your analysis:\n")
	b.WriteString("1. Project overview and core value proposition\n")
	b.WriteString("2. Team assessment (based on general knowledge)\n")
	b.WriteString("3. Technology assessment and innovation potential\n")
	b.WriteString("4. Market positioning and competition\n")
	b.WriteString("5. Tokenomics analysis (supply, distribution, utility)\n")
	b.WriteString("6. Community strength and ecosystem development\n")
	b.WriteString("7. An overall project assessment\n")
	b.WriteString("8. A clear recommendation (Strong Buy, Buy, Hold, Sell, Strong Sell)\n")
	b.WriteString(formatInstruction)
	return b.String()
}

// buildCombinedPrompt quotes both prior narratives verbatim under labeled
// headers and asks for the integrative pass with a 0-100 score.
func buildCombinedPrompt(technical, fundamental string, crypto *domain.CryptocurrencyDetails) string {
	var b strings.Builder
	b.WriteString("Create a comprehensive combined analysis for " + crypto.Name + " (" + crypto.Symbol + ") by integrating the technical and fundamental analyses below.\n")
	b.WriteString("\n=== TECHNICAL ANALYSIS ===\n\n")
	b.WriteString(technical + "\n")
	b.WriteString("\n=== FUNDAMENTAL ANALYSIS ===\n\n")
	b.WriteString(fundamental + "\n")
	b.WriteString("\nBased on both analyses, provide:\n")
	b.WriteString("1. An integrated overview that weighs both technical and fundamental factors\n")
	b.WriteString("2. Identification of any conflicting signals between technical and fundamental indicators\n")
	b.WriteString("3. A balanced investment thesis considering short, medium, and long-term outlook\n")
	b.WriteString("4. Risk assessment highlighting key concerns from both perspectives\n")
	b.WriteString("5. An overall rating score from 0-100\n")
	b.WriteString("6. A final recommendation with conviction level (Strong Buy, Buy, Hold, Sell, Strong Sell)\n")
	b.WriteString(formatInstruction)
	return b.String()
}
