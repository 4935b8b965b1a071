// Package grades records and reads student grades.
package grades
