package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"time"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/payment"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.CPF == user.CPF {
			return apperrors.ErrCPFAlreadyExists
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*models.User
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) UpdateProfilePicture(_ context.Context, userID int64, pictureURL *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.ProfilePictureURL = pictureURL
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) GetPurchasedCourses(_ context.Context, _ int64) ([]*models.Course, error) {
	return nil, nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  int64
	courses map[int64]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{nextID: 1, courses: make(map[int64]*models.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	course.ID = r.nextID
	course.CreatedAt = time.Now()
	course.UpdatedAt = time.Now()
	r.nextID++
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) CreateWithSubCourses(ctx context.Context, course *models.Course, subCourses []*models.Course) error {
	if err := r.Create(ctx, course); err != nil {
		return err
	}
	for _, sub := range subCourses {
		sub.ParentCourseID = &course.ID
		if err := r.Create(ctx, sub); err != nil {
			return err
		}
	}
	course.SubCourses = subCourses
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) GetAll(_ context.Context) ([]*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var courses []*models.Course
	for _, course := range r.courses {
		if course.ParentCourseID == nil {
			copied := *course
			courses = append(courses, &copied)
		}
	}
	return courses, nil
}

func (r *fakeCourseRepo) GetSubCourses(_ context.Context, parentID int64) ([]*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var courses []*models.Course
	for _, course := range r.courses {
		if course.ParentCourseID != nil && *course.ParentCourseID == parentID {
			copied := *course
			courses = append(courses, &copied)
		}
	}
	return courses, nil
}

func (r *fakeCourseRepo) GetSubCourseByID(_ context.Context, parentID, subCourseID int64) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[subCourseID]
	if !ok || course.ParentCourseID == nil || *course.ParentCourseID != parentID {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, course := range r.courses {
		if course.ParentCourseID != nil && *course.ParentCourseID == id {
			return apperrors.ErrCourseHasChildren
		}
	}
	delete(r.courses, id)
	return nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	nextID    int64
	questions map[int64]*models.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{nextID: 1, questions: make(map[int64]*models.Question)}
}

func (r *fakeQuestionRepo) Create(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	question.ID = r.nextID
	r.nextID++
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id int64) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	question, ok := r.questions[id]
	if !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	copied := *question
	return &copied, nil
}

func (r *fakeQuestionRepo) GetByCourseID(_ context.Context, courseID int64) ([]*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var questions []*models.Question
	for _, question := range r.questions {
		if question.CourseID == courseID {
			copied := *question
			questions = append(questions, &copied)
		}
	}
	return questions, nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[question.ID]; !ok {
		return apperrors.ErrQuestionNotFound
	}
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return apperrors.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

type entitlementKey struct {
	userID   int64
	courseID int64
}

type fakeEntitlementRepo struct {
	mu           sync.Mutex
	nextID       int64
	entitlements map[entitlementKey]*models.Entitlement
	grantCalls   int
}

func newFakeEntitlementRepo() *fakeEntitlementRepo {
	return &fakeEntitlementRepo{nextID: 1, entitlements: make(map[entitlementKey]*models.Entitlement)}
}

func (r *fakeEntitlementRepo) Grant(_ context.Context, userID, courseID int64, paymentRef *string) (*models.Entitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grantCalls++
	key := entitlementKey{userID, courseID}
	ent, ok := r.entitlements[key]
	if !ok {
		ent = &models.Entitlement{ID: r.nextID, UserID: userID, CourseID: courseID}
		r.nextID++
		r.entitlements[key] = ent
	}
	if ent.Status != models.EntitlementApproved {
		ent.GrantedAt = time.Now()
	}
	ent.Status = models.EntitlementApproved
	if paymentRef != nil {
		ent.PaymentRef = paymentRef
	}
	copied := *ent
	return &copied, nil
}

func (r *fakeEntitlementRepo) RecordFailed(_ context.Context, userID, courseID int64, paymentRef *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entitlementKey{userID, courseID}
	ent, ok := r.entitlements[key]
	if !ok {
		ent = &models.Entitlement{ID: r.nextID, UserID: userID, CourseID: courseID}
		r.nextID++
		r.entitlements[key] = ent
	}
	if ent.Status != models.EntitlementApproved {
		ent.Status = models.EntitlementFailed
		if paymentRef != nil {
			ent.PaymentRef = paymentRef
		}
	}
	return nil
}

func (r *fakeEntitlementRepo) Revoke(_ context.Context, userID, courseID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entitlementKey{userID, courseID}
	if _, ok := r.entitlements[key]; !ok {
		return apperrors.ErrEntitlementNotFound
	}
	delete(r.entitlements, key)
	return nil
}

func (r *fakeEntitlementRepo) HasApproved(_ context.Context, userID, courseID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent, ok := r.entitlements[entitlementKey{userID, courseID}]
	return ok && ent.Status == models.EntitlementApproved, nil
}

func (r *fakeEntitlementRepo) GetByUserAndCourse(_ context.Context, userID, courseID int64) (*models.Entitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent, ok := r.entitlements[entitlementKey{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrEntitlementNotFound
	}
	copied := *ent
	return &copied, nil
}

type fakeResetTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*resetTokenEntry
}

type resetTokenEntry struct {
	userID    int64
	expiresAt time.Time
	used      bool
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: make(map[string]*resetTokenEntry)}
}

func (r *fakeResetTokenRepo) CreateToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &resetTokenEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeResetTokenRepo) GetTokenInfo(_ context.Context, token string) (int64, time.Time, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.tokens[token]
	if !ok {
		return 0, time.Time{}, false, apperrors.ErrResetTokenInvalid
	}
	return entry.userID, entry.expiresAt, entry.used, nil
}

func (r *fakeResetTokenRepo) MarkTokenAsUsed(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrResetTokenInvalid
	}
	entry.used = true
	return nil
}

func (r *fakeResetTokenRepo) DeleteTokensByUserID(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, entry := range r.tokens {
		if entry.userID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func (r *fakeResetTokenRepo) DeleteExpiredTokens(_ context.Context) error {
	return nil
}

// fakeGateway returns canned sessions and events
type fakeGateway struct {
	session     *payment.CheckoutSession
	sessionErr  error
	event       *payment.Event
	verifyErr   error
	lastInput   payment.CheckoutInput
	checkoutHit int
}

func (g *fakeGateway) CreateCheckout(_ context.Context, input payment.CheckoutInput) (*payment.CheckoutSession, error) {
	g.checkoutHit++
	g.lastInput = input
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	return g.session, nil
}

func (g *fakeGateway) VerifyWebhook(_ []byte, _ string) (*payment.Event, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.event, nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]bool)}
}

func (r *fakeRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = true
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[tokenID], nil
}

type fakeEmailService struct {
	mu            sync.Mutex
	resetMails    []string
	purchaseMails []string
	lastToken     string
}

func (s *fakeEmailService) SendPasswordResetEmail(toEmail, _, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetMails = append(s.resetMails, toEmail)
	s.lastToken = token
	return nil
}

func (s *fakeEmailService) SendPurchaseConfirmationEmail(toEmail, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchaseMails = append(s.purchaseMails, toEmail)
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	nextID  int
	saved   []string
	deleted []string
}

func (s *fakeStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return s.SaveFileWithPath(fileHeader, "")
}

func (s *fakeStorage) SaveFileWithPath(_ *multipart.FileHeader, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	url := fmt.Sprintf("http://localhost/uploads/%s/file-%d", path, s.nextID)
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeStorage) DeleteFile(filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, filePath)
	return nil
}

func (s *fakeStorage) GetFullPath(fileURL string) string {
	return fileURL
}
