package room

import (
	"strings"

	"github.com/samber/lo"
)

// Semaphore is the order the status controls are shown in.
var Semaphore = []Status{
	StatusGreen,
	StatusYellow,
	StatusRed,
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, lo.Contains(Semaphore, st)
}

// Title is the label shown on a semaphore control.
func (s Status) Title() string {
	return strings.ToUpper(strings.Replace(string(s), "-", " ", 1))
}

func Ptr[T any](v T) *T { return &v }
