package scoring

import (
	"strings"

	"leadradar/pkg/keyword"
)

// PostLead scores a reddit post's lead value: 25 points per matched
// keyword across title and body. Deliberately uncapped; downstream
// ranking is purely comparative, so values above 100 are meaningful.
func PostLead(title, body string, keywords []string) int {
	return keyword.MatchCount(title+" "+body, keywords) * 25
}

// TweetLead scores a tweet's lead value in [0, 100], blending keyword
// coverage (70%) with an engagement signal (30%). Empty text or an empty
// keyword set scores 0.
func TweetLead(text string, keywords []string, replies, retweets, likes int) float64 {
	if strings.TrimSpace(text) == "" || len(keywords) == 0 {
		return 0
	}

	engagement := float64(retweets*2+likes+replies*3) / 100
	ratio := float64(keyword.MatchCount(text, keywords)) / float64(len(keywords))

	result := (ratio*0.7 + engagement*0.3) * 100
	if result > 100 {
		return 100
	}
	return result
}
