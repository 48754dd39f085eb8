package moderation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/legal-portal-api/internal/models"
)

// Flag reasons attached to a classified comment. Flags are recorded in the
// audit trail for later review but do not change the initial status of a
// non-staff comment.
const (
	FlagForbiddenWord = "forbidden_word"
	FlagTooManyLinks  = "too_many_links"
	FlagShouting      = "shouting"
	FlagRepeatedChars = "repeated_chars"
)

const (
	maxLinks          = 2
	shoutingMinSample = 10
	shoutingRatio     = 0.7
	maxCharRun        = 5
)

var urlRegex = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)

// Result is the outcome of classifying a new comment.
type Result struct {
	Status models.CommentStatus
	Flags  []string
}

// Classify decides the initial status of a comment and collects heuristic
// flags. Staff comments are approved outright. Every non-staff comment
// starts pending; the heuristics only mark it for priority review.
func Classify(content string, author *models.User) Result {
	if author.IsStaff() {
		return Result{Status: models.CommentStatusApproved}
	}
	return Result{
		Status: models.CommentStatusPending,
		Flags:  Flags(content),
	}
}

// Flags runs the heuristic scans over sanitized content and returns the
// reasons it looks suspicious, if any.
func Flags(content string) []string {
	var flags []string

	lower := strings.ToLower(content)
	for _, word := range forbiddenWords {
		if strings.Contains(lower, word) {
			flags = append(flags, FlagForbiddenWord)
			break
		}
	}

	if len(urlRegex.FindAllStringIndex(content, -1)) > maxLinks {
		flags = append(flags, FlagTooManyLinks)
	}

	if isShouting(content) {
		flags = append(flags, FlagShouting)
	}

	if hasLongRun(content) {
		flags = append(flags, FlagRepeatedChars)
	}

	return flags
}

// isShouting reports whether more than 70% of the letters are uppercase,
// over a sample of at least ten letters.
func isShouting(content string) bool {
	letters, upper := 0, 0
	for _, r := range content {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < shoutingMinSample {
		return false
	}
	return float64(upper)/float64(letters) > shoutingRatio
}

// hasLongRun reports whether any character repeats six or more times
// consecutively.
func hasLongRun(content string) bool {
	var prev rune
	run := 0
	for _, r := range content {
		if r == prev {
			run++
			if run > maxCharRun {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
