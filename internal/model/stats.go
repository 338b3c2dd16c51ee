package model

type MonthlyStat struct {
	Month       string `json:"month"`
	Visits      int    `json:"visits"`
	NewFamilies int    `json:"newFamilies"`
}

type DashboardStats struct {
	TotalFamilies        int                   `json:"totalFamilies"`
	TotalVisits          int                   `json:"totalVisits"`
	VisitsThisMonth      int                   `json:"visitsThisMonth"`
	FamiliesByPriority   map[PriorityLevel]int `json:"familiesByPriority"`
	FamiliesWithLocation int                   `json:"familiesWithLocation"`
	VisitsByType         map[VisitType]int     `json:"visitsByType"`
	MonthlyStats         []MonthlyStat         `json:"monthlyStats"`
}

type FamilyStats struct {
	FamilyID      string   `json:"familyId"`
	TotalVisits   int      `json:"totalVisits"`
	LastVisit     *Visit   `json:"lastVisit,omitempty"`
	OpenNeeds     []string `json:"openNeeds"`
	DaysSinceLast *int     `json:"daysSinceLastVisit,omitempty"`
}

// MapPoint is a located family as drawn on the map view.
type MapPoint struct {
	ID            string        `json:"id"`
	Reference     string        `json:"reference"`
	HeadOfFamily  string        `json:"headOfFamily"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	PriorityLevel PriorityLevel `json:"priorityLevel"`
}
