package model

import (
	"encoding/json"
	"time"
)

// WeekDateLayout is the wire format of WeekBucket.WeekStart.
const WeekDateLayout = "2006-01-02"

// WeekBucket aggregates one ISO week, Monday 00:00 UTC through Sunday.
type WeekBucket struct {
	WeekStart time.Time
	Credit    Money
	Debit     Money
	Balance   Money
}

type weekBucketJSON struct {
	Week    string `json:"week"`
	Credit  Money  `json:"credit"`
	Debit   Money  `json:"debit"`
	Balance Money  `json:"balance"`
}

func (b WeekBucket) MarshalJSON() ([]byte, error) {
	return json.Marshal(weekBucketJSON{
		Week:    b.WeekStart.Format(WeekDateLayout),
		Credit:  b.Credit,
		Debit:   b.Debit,
		Balance: b.Balance,
	})
}

func (b *WeekBucket) UnmarshalJSON(data []byte) error {
	var raw weekBucketJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := time.Parse(WeekDateLayout, raw.Week)
	if err != nil {
		return err
	}
	*b = WeekBucket{WeekStart: start, Credit: raw.Credit, Debit: raw.Debit, Balance: raw.Balance}
	return nil
}

// CategoryTotal is the sum of one (category, type) group.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Amount   Money           `json:"amount"`
}
