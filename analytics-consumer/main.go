package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

type SessionStats struct {
	Rounds int
	Wins   int
	Moves  int
}

type BotMetrics struct {
	TotalRounds      int
	TotalMoves       int
	DeducedMoves     int
	GuessMoves       int
	Wins             int
	Losses           int
	RoundsByStrategy map[string]int
	SessionStats     map[string]SessionStats
	AverageDuration  float64 // seconds
}

func main() {
	brokers := getenv("KAFKA_BROKERS", "localhost:9092")
	topic := getenv("KAFKA_TOPIC", "minesbot.analytics")
	r := kafka.NewReader(kafka.ReaderConfig{Brokers: []string{brokers}, Topic: topic, GroupID: "minesbot-analytics"})
	defer r.Close()

	metrics := &BotMetrics{
		RoundsByStrategy: make(map[string]int),
		SessionStats:     make(map[string]SessionStats),
	}

	log.Info("analytics consumer started, listening for round events")

	lastDump := time.Now()
	for {
		m, err := r.ReadMessage(context.Background())
		if err != nil {
			log.Warnln("read err:", err)
			continue
		}

		var ev map[string]any
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Warnln("unmarshal err:", err)
			continue
		}

		session := fmt.Sprint(ev["session"])
		switch fmt.Sprint(ev["event"]) {
		case "round.start":
			metrics.TotalRounds++
			metrics.RoundsByStrategy[fmt.Sprint(ev["strategy"])]++
			stats := metrics.SessionStats[session]
			stats.Rounds++
			metrics.SessionStats[session] = stats

		case "move":
			metrics.TotalMoves++
			if deduced, ok := ev["deduced"].(bool); ok && deduced {
				metrics.DeducedMoves++
			} else {
				metrics.GuessMoves++
			}
			stats := metrics.SessionStats[session]
			stats.Moves++
			metrics.SessionStats[session] = stats

		case "round.end":
			if won, ok := ev["won"].(bool); ok && won {
				metrics.Wins++
				stats := metrics.SessionStats[session]
				stats.Wins++
				metrics.SessionStats[session] = stats
			} else {
				metrics.Losses++
			}
			if d, ok := ev["duration"].(float64); ok {
				n := float64(metrics.Wins + metrics.Losses)
				metrics.AverageDuration = (metrics.AverageDuration*(n-1) + d) / n
			}
		}

		if time.Since(lastDump) >= 30*time.Second {
			printMetrics(metrics)
			lastDump = time.Now()
		}
	}
}

func printMetrics(m *BotMetrics) {
	finished := m.Wins + m.Losses
	winRate := 0.0
	if finished > 0 {
		winRate = float64(m.Wins) / float64(finished)
	}
	deductionShare := 0.0
	if m.TotalMoves > 0 {
		deductionShare = float64(m.DeducedMoves) / float64(m.TotalMoves)
	}

	log.Info("=== MINESBOT ANALYTICS ===")
	log.Infof("rounds: %d started, %d finished, %d won (%.1f%%)", m.TotalRounds, finished, m.Wins, winRate*100)
	log.Infof("moves: %d total, %d deduced, %d guessed (%.1f%% deduction share)", m.TotalMoves, m.DeducedMoves, m.GuessMoves, deductionShare*100)
	log.Infof("average round duration: %.1fs", m.AverageDuration)
	for strategy, n := range m.RoundsByStrategy {
		log.Infof("  strategy %s: %d rounds", strategy, n)
	}
	count := 0
	for session, stats := range m.SessionStats {
		if count >= 5 {
			break
		}
		log.Infof("  session %s: %d rounds, %d wins, %d moves", session, stats.Rounds, stats.Wins, stats.Moves)
		count++
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
