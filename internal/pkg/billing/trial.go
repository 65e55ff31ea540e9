package billing

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	TrialDays   = 7
	TrialPeriod = TrialDays * 24 * time.Hour

	day = 24 * time.Hour
)

// Backend timestamps are naive UTC; zoned variants are accepted as well.
var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseCreated parses an account creation timestamp, interpreting values
// without a zone as UTC.
func ParseCreated(createdAt string) (time.Time, bool) {
	createdAt = strings.TrimSpace(createdAt)
	if createdAt == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, createdAt, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// RemainingTrialDays returns ceil((created+7d - now) / 1d), or nil when the
// account is paid or createdAt cannot be parsed. The result goes negative
// once the trial is over.
func RemainingTrialDays(createdAt string, paid bool, now time.Time) *int {
	if paid {
		return nil
	}
	created, ok := ParseCreated(createdAt)
	if !ok {
		return nil
	}
	left := created.Add(TrialPeriod).Sub(now)
	days := int(math.Ceil(float64(left) / float64(day)))
	return &days
}

type BannerLevel string

const (
	BannerHidden  BannerLevel = ""
	BannerActive  BannerLevel = "active"
	BannerUrgent  BannerLevel = "urgent"
	BannerExpired BannerLevel = "expired"
)

// Banner is the trial notice shown above the dashboard.
type Banner struct {
	Level BannerLevel
	Days  int
}

func (b Banner) Visible() bool { return b.Level != BannerHidden }

func (b Banner) Expired() bool { return b.Level == BannerExpired }

func (b Banner) Title() string {
	switch b.Level {
	case BannerExpired:
		return "Trial Expired"
	case BannerHidden:
		return ""
	}
	if b.Days == 1 {
		return "1 day remaining in trial"
	}
	return strconv.Itoa(b.Days) + " days remaining in trial"
}

func (b Banner) Message() string {
	switch b.Level {
	case BannerExpired:
		return "Upgrade now to continue tracking your earnings automatically"
	case BannerHidden:
		return ""
	}
	return "Upgrade to continue enjoying automatic earnings tracking after your trial ends"
}

// TrialBanner classifies remaining days for display. Paid accounts and
// unknown creation dates get no banner; neither do trials that ended on an
// earlier day, where the dashboard shows the payment prompt instead.
func TrialBanner(days *int) Banner {
	if days == nil || *days > TrialDays || *days < 0 {
		return Banner{Level: BannerHidden}
	}
	d := *days
	switch {
	case d == 0:
		return Banner{Level: BannerExpired, Days: 0}
	case d <= 2:
		return Banner{Level: BannerUrgent, Days: d}
	default:
		return Banner{Level: BannerActive, Days: d}
	}
}

// ShowUpgrade reports whether an upgrade link should be offered.
func ShowUpgrade(paymentURL string, paid bool) bool {
	return !paid && strings.TrimSpace(paymentURL) != ""
}
