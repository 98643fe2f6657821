package models

import (
	"time"
)

const EnrollmentStatusEnrolled = "enrolled"

// UserProfile is the profile snapshot taken when a user accepts a recommendation.
type UserProfile struct {
	ProfileID                 uint    `gorm:"primaryKey"`
	UserID                    string  `gorm:"size:50;not null;index;uniqueIndex:idx_user_conversation"`
	ConversationID            string  `gorm:"size:50;uniqueIndex:idx_user_conversation"`
	Role                      *string `gorm:"size:100"`
	ExperienceMonths          *int
	TeamSize                  *int
	Industry                  *string `gorm:"size:100"`
	PrimaryChallenges         TextArray
	LearningGoals             TextArray
	TimeAvailableHoursPerWeek *int
	EmotionalState            *string `gorm:"size:50"`
	Urgency                   *string `gorm:"size:50"`
	MatchedPersonaID          string  `gorm:"size:50;index"`
	AssignedCollectionID      string  `gorm:"size:50"`
	ConfidenceScore           *int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// UserEnrollment is one video a user has been enrolled in.
type UserEnrollment struct {
	EnrollmentID uint   `gorm:"primaryKey"`
	UserID       string `gorm:"size:50;not null;index"`
	VideoID      string `gorm:"size:50"`
	CollectionID string `gorm:"size:50;index"`
	Status       string `gorm:"size:50;default:enrolled;index"`
	EnrolledAt   time.Time
}
