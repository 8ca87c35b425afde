// Package trackingcode выдает клиентам публичные коды вида QS-XXXXXXXX.
package trackingcode

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Prefix = "QS-"
	// BodyLength - число символов после префикса.
	BodyLength = 8
	Length     = len(Prefix) + BodyLength

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type Mode string

const (
	ModeRandom Mode = "random"
	ModeTime   Mode = "time"
)

var pattern = regexp.MustCompile(`^QS-[A-Z0-9]{8}$`)

// Valid проверяет, что код имеет вид QS-XXXXXXXX.
func Valid(code string) bool {
	return pattern.MatchString(code)
}

type Generator interface {
	Generate() (string, error)
}

// New возвращает генератор для режима mode.
func New(mode Mode) (Generator, error) {
	switch mode {
	case ModeRandom, "":
		return NewRandom(rand.Reader), nil
	case ModeTime:
		return NewTimeDerived(time.Now), nil
	default:
		return nil, fmt.Errorf("unknown tracking code mode %q", mode)
	}
}

type randomGenerator struct {
	reader io.Reader
	max    *big.Int
}

// NewRandom берет каждый символ равномерно из A-Z0-9 через reader.
// В production reader должен быть криптографически стойким.
func NewRandom(reader io.Reader) Generator {
	return &randomGenerator{reader: reader, max: big.NewInt(int64(len(alphabet)))}
}

func (g *randomGenerator) Generate() (string, error) {
	buf := make([]byte, BodyLength)
	for i := range buf {
		n, err := rand.Int(g.reader, g.max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return Prefix + string(buf), nil
}

type timeGenerator struct {
	now func() time.Time
}

// NewTimeDerived берет последние восемь цифр Unix-времени в секундах.
// Две заявки в одну секунду получат одинаковый код, режим только для разработки.
func NewTimeDerived(now func() time.Time) Generator {
	return &timeGenerator{now: now}
}

func (g *timeGenerator) Generate() (string, error) {
	secs := strconv.FormatInt(g.now().Unix(), 10)
	if len(secs) > BodyLength {
		secs = secs[len(secs)-BodyLength:]
	}
	return Prefix + strings.Repeat("0", BodyLength-len(secs)) + secs, nil
}
