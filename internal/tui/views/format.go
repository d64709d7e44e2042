package views

import (
	"hash/fnv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// avatarPalette is the fixed set of avatar background colors.
var avatarPalette = []tcell.Color{
	tcell.NewHexColor(0x00a884),
	tcell.NewHexColor(0x25d366),
	tcell.NewHexColor(0x34b7f1),
	tcell.NewHexColor(0xff6b6b),
	tcell.NewHexColor(0xffa726),
	tcell.NewHexColor(0xab47bc),
	tcell.NewHexColor(0x26a69a),
	tcell.NewHexColor(0xec407a),
}

// Initials returns the upper-cased first letters of the first two words of name.
func Initials(name string) string {
	var b strings.Builder
	for i, w := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// AvatarColor maps a name to a palette color. The same name always gets the
// same color.
func AvatarColor(name string) tcell.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

// FormatTime renders t relative to now: the clock time today, "Yesterday",
// the weekday within the last week, and the date otherwise.
func FormatTime(t, now time.Time) string {
	t = t.In(now.Location())
	// Calendar dates are compared in UTC so a DST shift cannot shorten a day.
	day := func(x time.Time) time.Time {
		y, m, d := x.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	days := int(day(now).Sub(day(t)).Hours() / 24)
	switch {
	case days <= 0:
		return t.Format("15:04")
	case days == 1:
		return "Yesterday"
	case days < 7:
		return t.Weekday().String()
	default:
		return t.Format("02/01/2006")
	}
}
