package simulate

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/rondo/pkg/logger"
)

// Constants for roster generation.
const (
	nameSuffixLength  = 8
	lateArrivalDivide = 4 // one in four squads gets a late arrival
)

// namePool holds first names the generator draws from. Generated players
// get a uuid suffix so repeated runs against the same instance never
// collide on the roster.
var namePool = []string{
	"Ada", "Ben", "Cleo", "Dan", "Eli", "Fay", "Gus", "Hana",
	"Ivo", "Juno", "Kai", "Lena", "Milo", "Nia", "Otto", "Pia",
	"Quin", "Rosa", "Sam", "Tess", "Uli", "Vera", "Wim", "Xena",
}

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// newBatchID generates a unique batch identifier.
func newBatchID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// generateRoster creates the requested number of unique player names.
// The first portion arrives for kickoff; when the squad is large enough,
// one player is occasionally held back to join as a late arrival batch.
func generateRoster(ctx context.Context, config *Config, stats *Stats) (kickoff, late []string) {
	logger.Get().Info(ctx, "generating roster", logger.Int("numPlayers", config.NumPlayers))

	players := make([]string, config.NumPlayers)
	for i := 0; i < config.NumPlayers; i++ {
		base := namePool[i%len(namePool)]
		players[i] = base + "-" + uuid.New().String()[:nameSuffixLength]
	}

	kickoff = players
	if config.NumPlayers > 2 && getRandomInt(lateArrivalDivide) == 0 {
		kickoff = players[:config.NumPlayers-1]
		late = players[config.NumPlayers-1:]
	}

	stats.PlayersGenerated = len(players)
	logger.Get().Info(ctx, "generated roster",
		logger.Int("kickoff", len(kickoff)),
		logger.Int("late", len(late)))
	return kickoff, late
}
