package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"coinsight/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// MarketReader is the market surface the bot commands query.
type MarketReader interface {
	Search(ctx context.Context, query string) []domain.Cryptocurrency
	GetTrendingCoins(ctx context.Context) []domain.Cryptocurrency
	GetGlobalMetrics(ctx context.Context) domain.GlobalMetrics
}

// StartTelegramBot wires the market commands and starts long polling.
// A missing token disables the bot without failing startup.
func StartTelegramBot(market MarketReader) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /price BTC")
		}
		query := args[0]
		matches := market.Search(context.Background(), query)
		if len(matches) == 0 {
			return c.Send(fmt.Sprintf("No cryptocurrency found for %q", query))
		}
		coin := matches[0]
		msg := fmt.Sprintf(
			"%s (%s)\nPrice: $%.2f\n24h Change: %.2f%%\n24h Volume: $%.0f",
			coin.Name, strings.ToUpper(coin.Symbol), coin.Price, coin.ChangePercentage24h, coin.Volume24h,
		)
		return c.Send(msg)
	})

	b.Handle("/trending", func(c tele.Context) error {
		coins := market.GetTrendingCoins(context.Background())
		if len(coins) == 0 {
			return c.Send("Trending data is unavailable right now")
		}
		var sb strings.Builder
		sb.WriteString("Top coins by 24h volume:\n")
		for i, coin := range coins {
			fmt.Fprintf(&sb, "%d. %s (%s) $%.2f\n", i+1, coin.Name, strings.ToUpper(coin.Symbol), coin.Price)
		}
		return c.Send(sb.String())
	})

	b.Handle("/market", func(c tele.Context) error {
		metrics := market.GetGlobalMetrics(context.Background())
		msg := fmt.Sprintf(
			"Global Market\nTotal Cap: $%.0f\n24h Volume: $%.0f\nBTC Dominance: %.1f%%\nActive Assets: %d",
			metrics.TotalMarketCap, metrics.TotalVolume24h, metrics.BitcoinDominance, metrics.ActiveCryptocurrencies,
		)
		return c.Send(msg)
	})

	log.Println("Telegram bot started")
	go b.Start()
}
