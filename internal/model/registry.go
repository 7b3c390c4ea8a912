package model

// All lists every table in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&ApiKey{},
		&SubscriptionPlan{},
		&Subscription{},
		&Payment{},
		&ExpertAdvisor{},
		&EAFile{},
		&LicenseKey{},
		&LicenseUsage{},
		&Referral{},
		&ReferralConfig{},
		&ReferralReward{},
		&UserLevel{},
		&Badge{},
		&UserBadge{},
		&AnalyticsEvent{},
		&SocialShareEvent{},
		&AuditLog{},
		&Notification{},
		&LearningResource{},
		&UserProgress{},
	}
}
