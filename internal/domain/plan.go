package domain

import "time"

// Plan is a purchasable subscription plan. Amounts are kept as the exact
// strings sent to Kashier so order hashes match what the gateway signs.
type Plan struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameAr   string `json:"name_ar"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Days     int    `json:"days"`
}

// Duration returns how long an activation bought with this plan lasts.
func (p Plan) Duration() time.Duration {
	return time.Duration(p.Days) * 24 * time.Hour
}

var plans = []Plan{
	{ID: "pro-monthly", Name: "Pro Monthly", NameAr: "الخطة الاحترافية الشهرية", Amount: "99", Currency: "EGP", Days: 30},
	{ID: "pro-yearly", Name: "Pro Yearly", NameAr: "الخطة الاحترافية السنوية", Amount: "999", Currency: "EGP", Days: 365},
}

// Plans lists the purchasable plans.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks up a plan; ok is false for unknown ids.
func PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
