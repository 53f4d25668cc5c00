package service

import "strings"

// StudentCodePrefix marks QR payloads produced by this service.
const StudentCodePrefix = "sabha:student:"

// StudentCode is the QR payload identifying a student at check-in.
func StudentCode(id string) string {
	return StudentCodePrefix + id
}

// ParseStudentCode extracts the student id from a scanned payload. Bare ids are accepted.
func ParseStudentCode(code string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(code), StudentCodePrefix))
}
