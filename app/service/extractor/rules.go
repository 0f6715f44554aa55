package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"replog/app/client/extraction"
	"replog/app/service/record"

	"github.com/elliotchance/pie/v2"
)

var (
	namePattern  = regexp.MustCompile(`\b(?:Dr|Prof|Mr|Ms|Mrs)\.?\s+[A-Z][A-Za-z'-]+(?:\s+[A-Z][A-Za-z'-]+)?`)
	timePattern  = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s?(?:am|pm)\b`)
	topicPattern = regexp.MustCompile(`(?i)(?:discuss(?:ed)?|talked about|regarding|about)\s+(?:the\s+|a\s+|an\s+|new\s+|our\s+)*([\w][\w\s-]*?)(?:\s+with\b|[.,;:!?]|$)`)

	brochureAfterPattern  = regexp.MustCompile(`brochure\s+(?:for|on|about)\s+([a-z][\w-]*)`)
	brochureBeforePattern = regexp.MustCompile(`\b([a-z][\w-]*)\s+brochure`)
)

var brochureStopwords = []string{"the", "a", "an", "this", "that", "your", "our", "their", "product"}

var dateWords = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"today", "tomorrow", "yesterday",
}

var timeWords = []string{"morning", "afternoon", "evening", "noon"}

type typeKeyword struct {
	keyword string
	label   string
}

var typeKeywords = []typeKeyword{
	{"call", "Call"},
	{"called", "Call"},
	{"phone", "Call"},
	{"visit", "Visit"},
	{"visited", "Visit"},
	{"lunch", "Lunch"},
	{"conference", "Conference"},
	{"email", "Email"},
	{"emailed", "Email"},
}

var positiveCues = []string{
	"positive", "great", "excited", "interested", "receptive", "productive", "happy", "pleased",
}

var negativeCues = []string{
	"negative", "concern", "concerned", "concerns", "unhappy", "declined",
	"skeptical", "upset", "complained", "frustrated",
}

// applyRules is the heuristic extraction path. It only claims fields the
// message plainly states and leaves everything else out of the update.
func (s *Service) applyRules(message string) *extraction.Result {
	lower := strings.ToLower(message)
	words := tokenize(lower)
	form := map[string]string{}

	if name := namePattern.FindString(message); name != "" {
		form[record.FieldHCPName] = name
	}

	if idx := pie.FindFirstUsing(dateWords, func(w string) bool {
		return pie.Contains(words, w)
	}); idx >= 0 {
		form[record.FieldDate] = originalCasing(message, lower, dateWords[idx])
	}

	if match := timePattern.FindString(message); match != "" {
		form[record.FieldTime] = match
	} else if idx := pie.FindFirstUsing(timeWords, func(w string) bool {
		return pie.Contains(words, w)
	}); idx >= 0 {
		form[record.FieldTime] = originalCasing(message, lower, timeWords[idx])
	}

	if idx := pie.FindFirstUsing(typeKeywords, func(kw typeKeyword) bool {
		return pie.Contains(words, kw.keyword)
	}); idx >= 0 {
		form[record.FieldInteractionType] = typeKeywords[idx].label
	}

	if match := topicPattern.FindStringSubmatch(message); match != nil {
		form[record.FieldTopics] = strings.TrimSpace(match[1])
	}

	sentiment := detectSentiment(words)
	if sentiment != "" {
		form[record.FieldSentiment] = sentiment
		form[record.FieldFollowUpActions] = suggestFollowUp(sentiment)
	}

	result := &extraction.Result{
		Reply: composeReply(form, lower),
	}
	if len(form) > 0 {
		result.UpdatedForm = form
	}

	return result
}

func detectSentiment(words []string) string {
	hasAny := func(cues []string) bool {
		return pie.FindFirstUsing(cues, func(cue string) bool {
			return pie.Contains(words, cue)
		}) >= 0
	}

	switch {
	case hasAny(negativeCues):
		return "Negative"
	case hasAny(positiveCues):
		return "Positive"
	default:
		return ""
	}
}

func suggestFollowUp(sentiment string) string {
	if strings.Contains(sentiment, "Negative") {
		return "Urgent follow-up (3 days)."
	}

	return "Standard follow-up (14 days)."
}

func composeReply(form map[string]string, lower string) string {
	var reply string

	switch {
	case form[record.FieldHCPName] != "":
		reply = fmt.Sprintf("Logged your interaction with %s.", form[record.FieldHCPName])
	case len(form) > 0:
		reply = "Noted, I've updated the form."
	default:
		reply = "Noted. Tell me more and I'll fill in the form."
	}

	if strings.Contains(lower, "gift") {
		reply += " Compliance Alert: Gifts."
	}

	if product := brochureProduct(lower); product != "" {
		reply += fmt.Sprintf(" Link: aivoa.com/%s.pdf", product)
	}

	return reply
}

// brochureProduct finds the product a brochure is requested for, matching
// both "brochure for X" and "X brochure" phrasings.
func brochureProduct(lower string) string {
	if match := brochureAfterPattern.FindStringSubmatch(lower); match != nil {
		return match[1]
	}

	if match := brochureBeforePattern.FindStringSubmatch(lower); match != nil {
		if !pie.Contains(brochureStopwords, match[1]) {
			return match[1]
		}
	}

	return ""
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

// originalCasing returns the keyword as it appears in the message, so that
// e.g. "Tuesday" keeps its capital letter.
func originalCasing(message, lower, keyword string) string {
	idx := strings.Index(lower, keyword)
	if idx < 0 {
		return keyword
	}

	return message[idx : idx+len(keyword)]
}
