package content

import (
	"fmt"
	"strings"

	"github.com/foxzi/eventmail/internal/event"
)

// Copy holds the text slots a strategy fills in
type Copy struct {
	Subject          string
	Preheader        string
	Headline         string
	Intro            string
	PainPoint        *string
	ValueProposition string
	Offer            string
	CTAText          string
}

// Strategy writes the copy for one content type
type Strategy func(ev event.Event) Copy

// Strategies maps every content type to its copy strategy
var Strategies = map[ContentType]Strategy{
	TypeAnnounce: announce,
	TypeSale:     sale,
	TypePainSale: painSale,
	TypeReminder: reminder,
	TypeDigest:   digest,
}

func announce(ev event.Event) Copy {
	return Copy{
		Subject:          fmt.Sprintf("%s — %s", ev.Name, ev.Date),
		Preheader:        "Registration is open for the main event of the year",
		Headline:         fmt.Sprintf("%s is coming soon", ev.Name),
		Intro:            fmt.Sprintf("Join us at %s on %s. Leading industry experts will share their knowledge and experience.", ev.Name, ev.Date),
		ValueProposition: "Program includes: " + strings.Join(head(ev.ProgramItems(), 2), ","),
		Offer:            "Register now and get access to all materials",
		CTAText:          "Register",
	}
}

func sale(ev event.Event) Copy {
	value := fmt.Sprintf("You get: access to %d sessions, networking with %d speakers, recordings of all talks",
		len(ev.ProgramItems()), len(ev.SpeakerItems()))
	return Copy{
		Subject:          fmt.Sprintf("Discount offer for %s until %s", ev.Name, ev.Date),
		Preheader:        "Last days of the special offer",
		Headline:         "Get your ticket at a discount",
		Intro:            fmt.Sprintf("%s is a unique chance to learn from the best experts.", ev.Name),
		ValueProposition: value,
		Offer:            "The special price is valid until the end of the week",
		CTAText:          "Buy a discounted ticket",
	}
}

func painSale(ev event.Event) Copy {
	pain := ev.PainItems()[0]
	painPoint := fmt.Sprintf("Without the right approach, %s keeps costing time and money. Every day of delay is expensive.", pain)
	return Copy{
		Subject:          "Solution for " + pain,
		Preheader:        "Learn how to overcome the main challenges",
		Headline:         "Sound familiar?",
		Intro:            fmt.Sprintf("Many people face the same problem: %s.", pain),
		PainPoint:        &painPoint,
		ValueProposition: fmt.Sprintf("At %s you will learn proven solutions from experts who have already walked this path", ev.Name),
		Offer:            fmt.Sprintf("Register before %s and get bonus materials", ev.Date),
		CTAText:          "Get the solution",
	}
}

func reminder(ev event.Event) Copy {
	return Copy{
		Subject:          fmt.Sprintf("Tomorrow: %s!", ev.Name),
		Preheader:        "Don't miss the start of the event",
		Headline:         "See you tomorrow",
		Intro:            fmt.Sprintf("A reminder: %s starts %s. Check your registration.", ev.Name, ev.Date),
		ValueProposition: "On the program: " + strings.Join(head(ev.ProgramItems(), 3), ", "),
		Offer:            "Join on time so you don't miss anything important",
		CTAText:          "Go to the event",
	}
}

func digest(ev event.Event) Copy {
	items := head(ev.ProgramItems(), 3)
	trimmed := make([]string, len(items))
	for i, item := range items {
		trimmed[i] = strings.TrimSpace(item)
	}
	return Copy{
		Subject:          "5 key topics of " + ev.Name,
		Preheader:        "An overview of the main insights of the event",
		Headline:         "Highlights of " + ev.Name,
		Intro:            "We have collected the key takeaways and ideas from the event.",
		ValueProposition: "• " + strings.Join(trimmed, "\n• "),
		Offer:            "Download the full recording and materials",
		CTAText:          "Get the materials",
	}
}

// head returns at most the first n items
func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
