package viewmodel

type Feature struct {
	Title       string
	Description string
}

type Landing struct {
	Layout
	Features   []Feature
	Steps      []Feature
	Highlights []Feature
}

func NewLanding(l Layout) Landing {
	return Landing{
		Layout: l,
		Features: []Feature{
			{"Auto Google Sheet updates", "Forward any gig payout email and watch your Sheet update instantly. No manual typing."},
			{"PDF earnings parsed", "We extract gross, tips and mileage from Uber, Lyft, DoorDash and Instacart payout PDFs."},
			{"7-day free trial", "No credit card required. Upgrade when the trial ends to keep tracking."},
		},
		Steps: []Feature{
			{"Forward Email", "Forward your payout emails to your unique DriverSheet address"},
			{"We Parse PDFs", "Our system automatically extracts earnings data from PDF attachments"},
			{"Sheet Auto-Updates", "Your Google Sheet updates with all your earnings data"},
		},
		Highlights: []Feature{
			{"Works with Gmail auto-forward.", "Point a filter for your payout senders at your DriverSheet address. Done."},
			{"Own your data.", "Everything lands in your Google Sheet. Delete us anytime and your history stays put."},
			{"$4/mo after trial.", "Lemon Squeezy handles billing."},
		},
	}
}
