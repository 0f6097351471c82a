package utils

import (
	"crypto/rand"
	"fmt"
	"io"
)

// codeAlphabet deliberately excludes the ambiguous characters I, O, 0 and 1
// so codes survive being read aloud or hand-copied from a printed invite.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeGenerator produces human-readable codes from an injectable random
// source. Production uses crypto/rand; tests inject a deterministic reader.
type CodeGenerator struct {
	source io.Reader
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{source: rand.Reader}
}

func NewCodeGeneratorWithSource(source io.Reader) *CodeGenerator {
	return &CodeGenerator{source: source}
}

// Code returns a random string of length n over the code alphabet.
func (g *CodeGenerator) Code(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.source, buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf), nil
}

// TicketNumber returns a ticket number like TKT-7XKF2M9Q.
func (g *CodeGenerator) TicketNumber() (string, error) {
	code, err := g.Code(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TKT-%s", code), nil
}

// InviteCode returns a 6 character invitation code.
func (g *CodeGenerator) InviteCode() (string, error) {
	return g.Code(6)
}
