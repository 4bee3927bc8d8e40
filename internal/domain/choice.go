package domain

// WorkAndSchool is the mandatory tour frequency alternative that produces one
// work tour and one school tour. Its tour order depends on worker status.
const WorkAndSchool = "work_and_school"

// Choice is the alternative chosen for one owner by a tour frequency model.
// A slice of choices is a choice series; its order is the original row order.
type Choice struct {
	OwnerID     int64  `json:"owner_id"`
	Alternative string `json:"alternative"`
}

// Person carries the person columns the mandatory tour processor reads.
type Person struct {
	ID                     int64  `json:"person_id"`
	HouseholdID            int64  `json:"household_id,omitempty"`
	MandatoryTourFrequency string `json:"mandatory_tour_frequency"`
	IsWorker               bool   `json:"is_worker"`
	SchoolTAZ              int64  `json:"school_taz"`
	WorkplaceTAZ           int64  `json:"workplace_taz"`
}

// WorkTour is a parent work tour together with its at-work subtour frequency
// choice. TourID must already be a stable tour id from the mandatory run.
type WorkTour struct {
	TourID                 int64  `json:"tour_id"`
	PersonID               int64  `json:"person_id"`
	TourNum                int    `json:"tour_num"`
	AtWorkSubtourFrequency string `json:"atwork_subtour_frequency"`
}

// Chosen returns the choices that name an alternative, in order. Owners with
// an empty alternative made no choice and generate no tours.
func Chosen(choices []Choice) []Choice {
	out := make([]Choice, 0, len(choices))
	for _, c := range choices {
		if c.Alternative != "" {
			out = append(out, c)
		}
	}
	return out
}
