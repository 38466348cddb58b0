package config

import (
	"grievanceportal/backend/internal/models"
	"time"
)

const (
	// Complaint text
	TitleMinLength       = 5
	TitleMaxLength       = 100
	DescriptionMinLength = 20
	DescriptionMaxLength = 1000

	// Evidence
	MaxEvidenceFiles    = 3
	MaxEvidenceFileSize = 5 * 1024 * 1024
	EvidencePathPrefix  = "evidence"

	// Credentials
	StudentPasswordMinLength = 6
	AdminPasswordMinLength   = 8
)

// EarliestIncidentDate is the lower bound for a complaint's incident date.
var EarliestIncidentDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// AllowedEvidenceTypes maps accepted MIME types to the extension used in storage paths.
var AllowedEvidenceTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"application/pdf": "pdf",
}

// DefaultCategories is served when the category table cannot be read or is empty.
// The fixed IDs let complaints filed against the fallback still resolve after seeding.
var DefaultCategories = []models.Category{
	{ID: "11111111-1111-1111-1111-111111111111", Title: "Academic Issues", Description: "Issues related to courses, exams, faculty, and teaching", Icon: "academic"},
	{ID: "44444444-4444-4444-4444-444444444444", Title: "Administrative & Services", Description: "Problems with fees, scholarships, transport passes, and lost items", Icon: "building"},
	{ID: "22222222-2222-2222-2222-222222222222", Title: "Campus Facilities", Description: "Problems with infrastructure, library, hostel, and canteen", Icon: "facilities"},
	{ID: "66666666-6666-6666-6666-666666666666", Title: "Extracurricular & General Concerns", Description: "Problems with clubs, sports, and event management", Icon: "lightbulb"},
	{ID: "55555555-5555-5555-5555-555555555555", Title: "Technical & Online Services", Description: "Issues with Wi-Fi, internet, and student portal", Icon: "wifi"},
	{ID: "33333333-3333-3333-3333-333333333333", Title: "Transportation & Security", Description: "Issues with buses, bouncers, parking, and campus security", Icon: "transportation"},
}

// DefaultSubcategories is seeded alongside DefaultCategories by the admin tool.
var DefaultSubcategories = []models.Subcategory{
	{Title: "Examinations", CategoryID: "11111111-1111-1111-1111-111111111111"},
	{Title: "Faculty", CategoryID: "11111111-1111-1111-1111-111111111111"},
	{Title: "Course Content", CategoryID: "11111111-1111-1111-1111-111111111111"},
	{Title: "Hostel", CategoryID: "22222222-2222-2222-2222-222222222222"},
	{Title: "Library", CategoryID: "22222222-2222-2222-2222-222222222222"},
	{Title: "Canteen", CategoryID: "22222222-2222-2222-2222-222222222222"},
	{Title: "Buses", CategoryID: "33333333-3333-3333-3333-333333333333"},
	{Title: "Parking", CategoryID: "33333333-3333-3333-3333-333333333333"},
	{Title: "Campus Security", CategoryID: "33333333-3333-3333-3333-333333333333"},
	{Title: "Fees", CategoryID: "44444444-4444-4444-4444-444444444444"},
	{Title: "Scholarships", CategoryID: "44444444-4444-4444-4444-444444444444"},
	{Title: "Lost Items", CategoryID: "44444444-4444-4444-4444-444444444444"},
	{Title: "Wi-Fi", CategoryID: "55555555-5555-5555-5555-555555555555"},
	{Title: "Student Portal", CategoryID: "55555555-5555-5555-5555-555555555555"},
	{Title: "Clubs", CategoryID: "66666666-6666-6666-6666-666666666666"},
	{Title: "Sports", CategoryID: "66666666-6666-6666-6666-666666666666"},
	{Title: "Events", CategoryID: "66666666-6666-6666-6666-666666666666"},
}
