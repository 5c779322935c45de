package services

// Services defined in this package:
// - AuthService: registration, login, logout and password reset
// - UserService: user profiles and profile pictures
// - CourseService: course catalog and sub-courses
// - QuestionService: course quiz questions
// - PurchaseService: checkout sessions and webhook-driven course unlocks
// - CertificateService: completion certificate PDFs
