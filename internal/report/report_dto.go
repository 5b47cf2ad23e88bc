package report

import "time"

type Bucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type CaseCount struct {
	Kind  string `json:"kind"`
	Total int    `json:"total"`
	Open  int    `json:"open"`
}

type Headcount struct {
	Total        int      `json:"total"`
	ByDepartment []Bucket `json:"by_department"`
	ByStatus     []Bucket `json:"by_status"`
	ByGender     []Bucket `json:"by_gender"`
}

type Summary struct {
	GeneratedAt   time.Time   `json:"generated_at"`
	Headcount     Headcount   `json:"headcount"`
	Cases         []CaseCount `json:"cases"`
	LeaveByStatus []Bucket    `json:"leave_by_status"`
}

// CaseRecord is the part of any HR case the summary needs.
type CaseRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
