package scoring

import (
	"math"
	"testing"
)

func TestPostLead(t *testing.T) {
	kws := []string{"crm", "sales", "software"}
	if got := PostLead("need a CRM", "looking for sales software", kws); got != 75 {
		t.Errorf("post lead = %d, want 75", got)
	}
	if got := PostLead("nothing relevant", "at all", kws); got != 0 {
		t.Errorf("post lead = %d, want 0", got)
	}
	if got := PostLead("crm", "sales", nil); got != 0 {
		t.Errorf("post lead with no keywords = %d, want 0", got)
	}
}

func TestPostLeadUncapped(t *testing.T) {
	// Five matched keywords: 125. The post formula has no upper bound.
	kws := []string{"a", "b", "c", "d", "e"}
	if got := PostLead("abcde", "", kws); got != 125 {
		t.Errorf("post lead = %d, want 125", got)
	}
}

func TestPostLeadMultipleOf25(t *testing.T) {
	cases := []struct {
		title, body string
		kws         []string
	}{
		{"crm", "", []string{"crm", "sales"}},
		{"", "", []string{"crm"}},
		{"crm sales tools", "and billing", []string{"crm", "sales", "billing"}},
	}
	for _, c := range cases {
		got := PostLead(c.title, c.body, c.kws)
		if got < 0 || got%25 != 0 {
			t.Errorf("PostLead(%q, %q) = %d, want non-negative multiple of 25", c.title, c.body, got)
		}
	}
}

func TestTweetLead(t *testing.T) {
	kws := []string{"crm", "sales"}

	// Full keyword coverage, no engagement: 0.7 * 100.
	got := TweetLead("our crm boosted sales", kws, 0, 0, 0)
	if math.Abs(got-70) > 1e-9 {
		t.Errorf("tweet lead = %v, want 70", got)
	}

	// Half coverage plus engagement: (0.35 + 0.5*0.3) * 100.
	got = TweetLead("looking for a crm", kws, 10, 10, 30)
	want := (0.5*0.7 + ((10*2+30+10*3)/100.0)*0.3) * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("tweet lead = %v, want %v", got, want)
	}
}

func TestTweetLeadZeroCases(t *testing.T) {
	if got := TweetLead("", []string{"crm"}, 5, 5, 5); got != 0 {
		t.Errorf("empty text: got %v, want 0", got)
	}
	if got := TweetLead("   ", []string{"crm"}, 5, 5, 5); got != 0 {
		t.Errorf("blank text: got %v, want 0", got)
	}
	if got := TweetLead("crm", nil, 5, 5, 5); got != 0 {
		t.Errorf("no keywords: got %v, want 0", got)
	}
}

func TestTweetLeadCappedAt100(t *testing.T) {
	// Viral tweet: engagement score alone would blow past the cap.
	got := TweetLead("crm sales", []string{"crm", "sales"}, 500, 2000, 10000)
	if got != 100 {
		t.Errorf("tweet lead = %v, want 100", got)
	}

	// Bounds hold for arbitrary inputs.
	inputs := []struct {
		replies, retweets, likes int
	}{
		{0, 0, 0}, {1, 2, 3}, {1000, 1000, 1000},
	}
	for _, in := range inputs {
		got := TweetLead("crm", []string{"crm", "sales"}, in.replies, in.retweets, in.likes)
		if got < 0 || got > 100 {
			t.Errorf("tweet lead out of [0,100]: %v", got)
		}
	}
}
