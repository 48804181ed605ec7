// Package ordernumber issues human readable booking numbers such as GD-20261014-042.
package ordernumber

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultPrefix = "GD"
	dateLayout    = "20060102"
	sequenceSpace = 1000
)

var prefixPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,7}$`)

// Generator produces <PREFIX>-<YYYYMMDD>-<NNN> numbers with a random suffix.
// Uniqueness is confirmed by the repository; callers retry with a new order on collision.
type Generator struct {
	prefix   string
	location *time.Location
	intn     func(int) int
}

// Option customises Generator.
type Option func(*Generator)

// WithRand replaces the suffix source, mostly for tests.
func WithRand(intn func(int) int) Option {
	return func(g *Generator) { g.intn = intn }
}

// New constructs Generator. The date component is rendered in location.
func New(prefix string, location *time.Location, opts ...Option) (*Generator, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !prefixPattern.MatchString(prefix) {
		return nil, fmt.Errorf("invalid order number prefix %q", prefix)
	}
	if location == nil {
		location = time.UTC
	}
	g := &Generator{prefix: prefix, location: location, intn: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Next returns a number for an order created at createdAt.
func (g *Generator) Next(createdAt time.Time) string {
	seq := g.intn(sequenceSpace)
	return fmt.Sprintf("%s-%s-%03d", g.prefix, createdAt.In(g.location).Format(dateLayout), seq)
}
