package models

import "time"

// MealType enumerates the meal services a hostess can run.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSupper    MealType = "supper"
	MealBeverages MealType = "beverages"
)

// TimestampKey names one milestone in the session timestamp ledger.
// Keys are added as the delivery progresses and never removed; once set,
// a key is immutable for the life of the session.
type TimestampKey string

const (
	TSKitchenExit       TimestampKey = "kitchenExit"
	TSWardArrival       TimestampKey = "wardArrival"
	TSDietSheetCaptured TimestampKey = "dietSheetCaptured"
	TSNurseAlerted      TimestampKey = "nurseAlerted"
	TSNurseResponse     TimestampKey = "nurseResponse"
	TSServiceStart      TimestampKey = "serviceStart"
	TSServiceComplete   TimestampKey = "serviceComplete"
)

// TimestampKeys is the fixed ordered key set of the ledger.
var TimestampKeys = []TimestampKey{
	TSKitchenExit,
	TSWardArrival,
	TSDietSheetCaptured,
	TSNurseAlerted,
	TSNurseResponse,
	TSServiceStart,
	TSServiceComplete,
}

// ValidTimestampKey reports whether key belongs to the fixed ledger key set.
func ValidTimestampKey(key TimestampKey) bool {
	for _, k := range TimestampKeys {
		if k == key {
			return true
		}
	}
	return false
}

// MealData tracks the meal load of a session. Served never exceeds Count.
type MealData struct {
	Type   MealType `json:"type" bson:"type"`
	Count  int      `json:"count" bson:"count"`
	Served int      `json:"served" bson:"served"`
}

// Documentation holds the free-form record a hostess attaches to a session.
// DietSheetPhoto is the storage public ID of the captured sheet, if any.
type Documentation struct {
	DietSheetPhoto  string `json:"dietSheetPhoto,omitempty" bson:"dietSheetPhoto,omitempty"`
	Comments        string `json:"comments" bson:"comments"`
	AdditionalNotes string `json:"additionalNotes" bson:"additionalNotes"`
}

// Performance holds metrics derived from the timestamp ledger. These are
// never authoritative; they can always be recomputed from Timestamps.
type Performance struct {
	TravelTime        time.Duration `json:"travelTime,omitempty" bson:"travelTime,omitempty"`
	NurseResponseTime time.Duration `json:"nurseResponseTime,omitempty" bson:"nurseResponseTime,omitempty"`
	ServingTime       time.Duration `json:"servingTime,omitempty" bson:"servingTime,omitempty"`
	TotalDuration     time.Duration `json:"totalDuration,omitempty" bson:"totalDuration,omitempty"`
	Efficiency        int           `json:"efficiency,omitempty" bson:"efficiency,omitempty"`
}

// NurseInfo records the nurse who acknowledged a meal alert.
type NurseInfo struct {
	Name         string        `json:"name" bson:"name"`
	ResponseTime time.Duration `json:"responseTime" bson:"responseTime"`
}

// Session lifecycle status values used by the API and the expiry worker.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionExpired   = "expired"
)

// SessionRecord is the single in-flight delivery session.
type SessionRecord struct {
	SessionID     string                     `json:"sessionId" bson:"sessionId"`
	HostessID     string                     `json:"hostessId" bson:"hostessId"`
	HostessName   string                     `json:"hostessName" bson:"hostessName"`
	HospitalID    string                     `json:"hospitalId" bson:"hospitalId"`
	WardID        string                     `json:"wardId" bson:"wardId"`
	Status        string                     `json:"status" bson:"status"`
	ShiftTime     time.Time                  `json:"shiftTime" bson:"shiftTime"`
	Timestamps    map[TimestampKey]time.Time `json:"timestamps" bson:"timestamps"`
	MealData      MealData                   `json:"mealData" bson:"mealData"`
	Documentation Documentation              `json:"documentation" bson:"documentation"`
	Performance   Performance                `json:"performance" bson:"performance"`
	NurseInfo     *NurseInfo                 `json:"nurseInfo,omitempty" bson:"nurseInfo,omitempty"`
}

// Clone returns a deep copy of the record. The workflow reducer relies on
// this so dispatched states never alias each other's timestamp maps.
func (s SessionRecord) Clone() SessionRecord {
	out := s
	out.Timestamps = make(map[TimestampKey]time.Time, len(s.Timestamps))
	for k, v := range s.Timestamps {
		out.Timestamps[k] = v
	}
	if s.NurseInfo != nil {
		ni := *s.NurseInfo
		out.NurseInfo = &ni
	}
	return out
}

// DerivePerformance recomputes the derived metrics from the ledger.
func (s SessionRecord) DerivePerformance() Performance {
	var p Performance
	ts := s.Timestamps
	if a, b := ts[TSKitchenExit], ts[TSWardArrival]; !a.IsZero() && !b.IsZero() {
		p.TravelTime = b.Sub(a)
	}
	if a, b := ts[TSNurseAlerted], ts[TSNurseResponse]; !a.IsZero() && !b.IsZero() {
		p.NurseResponseTime = b.Sub(a)
	}
	if a, b := ts[TSServiceStart], ts[TSServiceComplete]; !a.IsZero() && !b.IsZero() {
		p.ServingTime = b.Sub(a)
	}
	if a, b := ts[TSKitchenExit], ts[TSServiceComplete]; !a.IsZero() && !b.IsZero() {
		p.TotalDuration = b.Sub(a)
		// Efficiency scores the run against the 25 minute target window:
		// 100 at or under target, minus one point per percent of overrun.
		target := 25 * time.Minute
		score := 100
		if p.TotalDuration > target {
			score -= int((p.TotalDuration - target) * 100 / target)
		}
		if score < 0 {
			score = 0
		}
		p.Efficiency = score
	}
	return p
}
