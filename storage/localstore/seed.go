package localstore

import (
	"github.com/joineazy/tracker/core/assignment"
)

// SeedData is written by SeedIfEmpty.
func SeedData() assignment.Dataset {
	return assignment.Dataset{
		Students: []assignment.Student{
			{ID: "s1", Name: "Rajat Kumar"},
			{ID: "s2", Name: "Alice"},
			{ID: "s3", Name: "Bob"},
		},
		Assignments: []assignment.Assignment{
			{
				ID:          "a1",
				Title:       "React Basics Project",
				DueDate:     "2025-10-30",
				DriveLink:   "https://drive.google.com/example1",
				AssignedTo:  []string{"s1", "s2", "s3"},
				Submissions: map[string]assignment.Submission{},
			},
			{
				ID:          "a2",
				Title:       "Tailwind Responsive UI",
				DueDate:     "2025-11-05",
				DriveLink:   "https://drive.google.com/example2",
				AssignedTo:  []string{"s1", "s3"},
				Submissions: map[string]assignment.Submission{},
			},
		},
	}
}

// SeedIfEmpty writes SeedData only when the dataset key is absent.
// A present key, even holding an empty or malformed document, is left alone.
func (s *Store) SeedIfEmpty() (bool, error) {
	data, err := s.read(DataKey)
	if err != nil {
		return false, err
	}
	if data != nil {
		return false, nil
	}
	if err := s.write(DataKey, SeedData()); err != nil {
		return false, err
	}
	s.logger.Info("assignment data seeded")
	return true, nil
}
