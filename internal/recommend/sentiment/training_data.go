// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package sentiment

// TrainingSamples is the fixed labeled sample the classifier is fitted
// on. Small on purpose: the feature only needs a coarse favorable vs
// unfavorable signal per review snippet.
func TrainingSamples() []Sample {
	return []Sample{
		{Text: "An absolute masterpiece, beautifully written and impossible to put down", Label: Positive},
		{Text: "Loved every page, the characters felt real and the ending was perfect", Label: Positive},
		{Text: "A wonderful and moving story that stayed with me for weeks", Label: Positive},
		{Text: "Brilliant prose and a gripping plot, one of the best books I have read", Label: Positive},
		{Text: "Charming, funny, and deeply satisfying from start to finish", Label: Positive},
		{Text: "Excellent world building with a fantastic and memorable cast", Label: Positive},
		{Text: "A delightful read, warm and clever with a great sense of humor", Label: Positive},
		{Text: "Stunning and powerful, this novel deserves every award it won", Label: Positive},
		{Text: "Compelling characters and a beautiful story told with real heart", Label: Positive},
		{Text: "Engaging and thoughtful, I recommend this book to everyone", Label: Positive},
		{Text: "A joy to read, elegant writing and a truly satisfying conclusion", Label: Positive},
		{Text: "Rich, immersive, and wonderfully imaginative storytelling", Label: Positive},
		{Text: "The best novel I read this year, moving and unforgettable", Label: Positive},
		{Text: "Superb pacing and sharp dialogue, an impressive achievement", Label: Positive},
		{Text: "Heartwarming and insightful, a perfect book for a rainy weekend", Label: Positive},
		{Text: "Boring and predictable, I could not finish this book", Label: Negative},
		{Text: "A tedious slog with flat characters and a pointless plot", Label: Negative},
		{Text: "Terrible pacing, dull prose, and a disappointing ending", Label: Negative},
		{Text: "Overrated and shallow, a complete waste of time", Label: Negative},
		{Text: "The writing was clumsy and the story made no sense", Label: Negative},
		{Text: "Awful dialogue and cardboard characters, I regret buying it", Label: Negative},
		{Text: "Painfully slow and repetitive, nothing happens for hundreds of pages", Label: Negative},
		{Text: "A confusing mess with plot holes everywhere, very disappointing", Label: Negative},
		{Text: "Bland, forgettable, and far too long for such a thin story", Label: Negative},
		{Text: "The worst book I have read in years, dreadful from start to finish", Label: Negative},
		{Text: "Weak plot, annoying protagonist, and a lazy rushed ending", Label: Negative},
		{Text: "Pretentious and empty, the hype is completely undeserved", Label: Negative},
		{Text: "Poorly edited and badly structured, a frustrating experience", Label: Negative},
		{Text: "Dull characters, stilted prose, and no emotional payoff at all", Label: Negative},
		{Text: "I was bored throughout and skimmed the last hundred pages", Label: Negative},
	}
}
