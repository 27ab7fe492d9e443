package model

import "cloud.google.com/go/civil"

type ListingRecord struct {
	ID                 string
	Accommodates       *int
	HostResponseRate   RawValue
	ReviewScoresRating RawValue
}

// QualifyingListing holds rates normalized to [0,1].
type QualifyingListing struct {
	ID                 string
	Accommodates       *int
	HostResponseRate   float64
	ReviewScoresRating float64
}

type CalendarRecord struct {
	ListingID string
	Date      civil.Date
	Available bool
	Price     RawValue
}

// JoinedRow is a calendar row with the attributes of its listing attached
// when that listing qualified. Listing is nil otherwise.
type JoinedRow struct {
	ListingID string
	Date      civil.Date
	Available bool
	Price     *float64
	Listing   *QualifyingListing
}

func (r JoinedRow) Accommodates() *int {
	if r.Listing == nil {
		return nil
	}
	return r.Listing.Accommodates
}
