package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core/content"
)

// seed idempotently creates the default users and perspective files.
func (cli *commandLine) seed() error {
	if err := cli.migrate([]string{"up"}); err != nil {
		return errors.Wrap(err, "migrating")
	}

	users := []struct {
		email   string
		name    string
		pwd     string
		isAdmin bool
	}{
		{"admin@phronisis.test", "Admin User", "admin123", true},
		{"learner@phronisis.test", "Test Learner", "learn123", false},
	}
	for _, u := range users {
		if err := cli.addUser(u.email, u.name, u.pwd, u.isAdmin); err != nil {
			return errors.Wrapf(err, "seeding user %s", u.email)
		}
		fmt.Printf("Seeded user: %s\n", u.email)
	}

	loader := content.NewLoader(cli.conf.ContentDir, nil)
	for _, p := range seedPerspectives {
		if err := loader.Save(p); err != nil {
			return errors.Wrapf(err, "seeding perspective %s", p.Slug)
		}
		fmt.Printf("Seeded perspective: %s\n", p.Slug)
	}
	return nil
}

var seedPerspectives = []content.Perspective{
	{
		Slug:    "understanding-arguments",
		Title:   "Understanding Arguments",
		Summary: "Learn to identify, analyze, and construct logical arguments in everyday reasoning.",
		Order:   1,
		Lessons: []content.Lesson{
			{
				ID:    "what-is-an-argument",
				Title: "What is an Argument?",
				KeyIdeas: []string{
					"Arguments have premises and conclusions",
					"Not all statements are arguments",
					"Arguments aim to persuade through reasoning",
					"Good arguments provide evidence for their claims",
				},
				Examples: []string{
					"Argument: 'It's raining outside, so you should bring an umbrella.'",
					"Not an argument: 'I love pizza.' (just a statement of preference)",
					"Argument: 'Students who study regularly perform better on tests. You want good grades, so you should study regularly.'",
				},
				QuickChecks: []content.QuickCheck{
					{
						Question: "Which of these is an argument?",
						Choices: []string{
							"The weather is nice today.",
							"Since it's sunny, we should go to the park.",
							"I really enjoy reading books.",
						},
						AnswerIndex: 1,
						Feedback: []string{
							"This is just a statement about the weather, not an argument.",
							"Correct! This gives a reason (sunny weather) for a conclusion (should go to park).",
							"This is just a personal preference, not an argument.",
						},
					},
				},
				Minigame: &content.Minigame{
					Type:          content.MinigameChoice,
					Title:         "Spot the Argument",
					Prompt:        "Look at this social media post: 'Everyone should vote because democracy depends on participation.' Is this an argument?",
					Options:       []string{"Yes, it's an argument", "No, it's just an opinion"},
					CorrectOption: "Yes, it's an argument",
					Explanation:   "This is an argument because it provides a reason (democracy depends on participation) to support a conclusion (everyone should vote).",
				},
			},
		},
		CreatorChallenge: &content.CreatorChallenge{
			Prompt: "Think of a recent conversation or social media post where someone was trying to convince you of something. " +
				"Write a short analysis of their reasoning.",
			Criteria: []string{
				"Identifies what they wanted you to believe (conclusion)",
				"Identifies what reasons they gave (premises)",
				"States whether you found their reasoning convincing and why",
			},
		},
		Resources: []content.Resource{
			{Label: "Stanford Encyclopedia: Argument", URL: "https://plato.stanford.edu/entries/argument/"},
			{Label: "Critical Thinking Web", URL: "https://www.criticalthinking.org/"},
		},
	},
	{
		Slug:    "digital-media-literacy",
		Title:   "Digital Media Literacy",
		Summary: "Spot manipulation, verify sources, recognize AI-generated content.",
		Order:   2,
		Lessons: []content.Lesson{
			{
				ID:    "signals-of-reliability",
				Title: "Signals of Reliability",
				KeyIdeas: []string{
					"Source transparency",
					"Evidence and citations",
					"Corrections and retractions policy",
					"Understanding incentives and biases",
				},
				Examples: []string{
					"Opinion vs reporting side-by-side comparison",
					"News site with a corrections page vs one without",
					"Article with multiple sources vs single anonymous source",
					"Sponsored content vs editorial content",
				},
				QuickChecks: []content.QuickCheck{
					{
						Question: "Which is a better first signal of reliability?",
						Choices: []string{
							"Has a professional-looking logo",
							"Lists sources and has a corrections policy",
							"Has lots of advertisements",
						},
						AnswerIndex: 1,
						Feedback: []string{
							"Logos can be easily faked and don't indicate factual accuracy.",
							"Correct, traceable evidence and accountability mechanisms matter most.",
							"Advertisements say nothing about the quality of evidence or fact-checking.",
						},
					},
				},
				Minigame: &content.Minigame{
					Type:          content.MinigameChoice,
					Title:         "Source Radar",
					Prompt:        "You see a news snippet that cites 'government officials' but doesn't name them or link to original documents. How would you rate its reliability?",
					Options:       []string{"Low", "Medium", "High"},
					CorrectOption: "Medium",
					Explanation:   "This shows some transparency (citing sources) but lacks full accountability (no names or links). It's not terrible, but not ideal either.",
				},
			},
		},
		CreatorChallenge: &content.CreatorChallenge{
			Prompt: "Draft a 5-step checklist you'll use before sharing a headline or article on social media. " +
				"Submit your checklist as your artifact.",
			Criteria: []string{
				"Covers verifying reliability of the source",
				"Covers checking for bias",
				"Helps avoid spreading misinformation",
			},
		},
		Resources: []content.Resource{
			{Label: "Ground News", URL: "https://ground.news"},
			{Label: "Snopes Fact Checking", URL: "https://snopes.com"},
			{Label: "AllSides Media Bias Chart", URL: "https://www.allsides.com/media-bias/media-bias-chart"},
		},
	},
}
