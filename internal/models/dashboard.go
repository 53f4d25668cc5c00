package models

// FridayReasons counts last Friday's call notes by reason.
type FridayReasons struct {
	Coming  int64 `json:"Coming"`
	Job     int64 `json:"Job"`
	Lecture int64 `json:"Lecture"`
	Other   int64 `json:"Other"`
}

// DashboardStats is the counter set behind the home page.
type DashboardStats struct {
	TotalStudents  int64         `json:"totalStudents"`
	TotalCalls     int64         `json:"totalCalls"`
	CompletedCalls int64         `json:"completedCalls"`
	PendingCalls   int64         `json:"pendingCalls"`
	TodaysCalls    int64         `json:"todaysCalls"`
	WeeksCalls     int64         `json:"weeksCalls"`
	MonthsCalls    int64         `json:"monthsCalls"`
	FridayReasons  FridayReasons `json:"fridayReasons"`
}
