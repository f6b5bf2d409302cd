package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByIDFreshFn      func(context.Context, uint) (*models.User, error)
	getByIDWithSkillsFn func(context.Context, uint) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	updateFn            func(context.Context, *models.User) error
	deleteFn            func(context.Context, uint) error
	listFn              func(context.Context, int, int) ([]models.User, error)
	searchBySkillFn     func(context.Context, string, int, int) ([]models.User, error)
	setBannedFn         func(context.Context, uint, bool, string) error
	countFn             func(context.Context) (int64, error)
	countBannedFn       func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDFresh(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFreshFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithSkills(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithSkillsFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) SearchBySkill(ctx context.Context, skillName string, limit, offset int) ([]models.User, error) {
	return s.searchBySkillFn(ctx, skillName, limit, offset)
}
func (s *userRepoStub) SetBanned(ctx context.Context, id uint, banned bool, reason string) error {
	return s.setBannedFn(ctx, id, banned, reason)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) CountBanned(ctx context.Context) (int64, error) {
	return s.countBannedFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByIDFreshFn:      func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByIDWithSkillsFn: func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:        func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:            func(context.Context, *models.User) error { return nil },
		updateFn:            func(context.Context, *models.User) error { return nil },
		deleteFn:            func(context.Context, uint) error { return nil },
		listFn:              func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		searchBySkillFn:     func(context.Context, string, int, int) ([]models.User, error) { return nil, nil },
		setBannedFn:         func(context.Context, uint, bool, string) error { return nil },
		countFn:             func(context.Context) (int64, error) { return 0, nil },
		countBannedFn:       func(context.Context) (int64, error) { return 0, nil },
	}
}

type skillRepoStub struct {
	createFn             func(context.Context, *models.Skill) error
	getByIDFn            func(context.Context, uint) (*models.Skill, error)
	getByUserIDFn        func(context.Context, uint) ([]models.Skill, error)
	getByUserIDAndTypeFn func(context.Context, uint, models.SkillType) ([]models.Skill, error)
	updateFn             func(context.Context, *models.Skill) error
	deleteFn             func(context.Context, uint) error
	popularFn            func(context.Context, int) ([]repository.PopularSkill, error)
	countFn              func(context.Context) (int64, error)
}

func (s *skillRepoStub) Create(ctx context.Context, skill *models.Skill) error {
	return s.createFn(ctx, skill)
}
func (s *skillRepoStub) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	return s.getByIDFn(ctx, id)
}
func (s *skillRepoStub) GetByUserID(ctx context.Context, userID uint) ([]models.Skill, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *skillRepoStub) GetByUserIDAndType(ctx context.Context, userID uint, skillType models.SkillType) ([]models.Skill, error) {
	return s.getByUserIDAndTypeFn(ctx, userID, skillType)
}
func (s *skillRepoStub) Update(ctx context.Context, skill *models.Skill) error {
	return s.updateFn(ctx, skill)
}
func (s *skillRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *skillRepoStub) Popular(ctx context.Context, limit int) ([]repository.PopularSkill, error) {
	return s.popularFn(ctx, limit)
}
func (s *skillRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopSkillRepo() *skillRepoStub {
	return &skillRepoStub{
		createFn:      func(context.Context, *models.Skill) error { return nil },
		getByIDFn:     func(context.Context, uint) (*models.Skill, error) { return &models.Skill{}, nil },
		getByUserIDFn: func(context.Context, uint) ([]models.Skill, error) { return nil, nil },
		getByUserIDAndTypeFn: func(context.Context, uint, models.SkillType) ([]models.Skill, error) {
			return nil, nil
		},
		updateFn:  func(context.Context, *models.Skill) error { return nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		popularFn: func(context.Context, int) ([]repository.PopularSkill, error) { return nil, nil },
		countFn:   func(context.Context) (int64, error) { return 0, nil },
	}
}

type swapRepoStub struct {
	createFn            func(context.Context, *models.SwapRequest) error
	getByIDFn           func(context.Context, uint) (*models.SwapRequest, error)
	listByRequesterFn   func(context.Context, uint, int, int) ([]models.SwapRequest, error)
	listByProviderFn    func(context.Context, uint, int, int) ([]models.SwapRequest, error)
	listByParticipantFn func(context.Context, uint, int, int) ([]models.SwapRequest, error)
	transitionStatusFn  func(context.Context, uint, []models.SwapStatus, models.SwapStatus) (bool, error)
	deletePendingFn     func(context.Context, uint) (bool, error)
	pendingExistsFn     func(context.Context, uint, uint) (bool, error)
	countFn             func(context.Context) (int64, error)
	countByStatusFn     func(context.Context, models.SwapStatus) (int64, error)
}

func (s *swapRepoStub) Create(ctx context.Context, swap *models.SwapRequest) error {
	return s.createFn(ctx, swap)
}
func (s *swapRepoStub) GetByID(ctx context.Context, id uint) (*models.SwapRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *swapRepoStub) ListByRequester(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	return s.listByRequesterFn(ctx, userID, limit, offset)
}
func (s *swapRepoStub) ListByProvider(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	return s.listByProviderFn(ctx, userID, limit, offset)
}
func (s *swapRepoStub) ListByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	return s.listByParticipantFn(ctx, userID, limit, offset)
}
func (s *swapRepoStub) TransitionStatus(ctx context.Context, id uint, allowedFrom []models.SwapStatus, target models.SwapStatus) (bool, error) {
	return s.transitionStatusFn(ctx, id, allowedFrom, target)
}
func (s *swapRepoStub) DeletePending(ctx context.Context, id uint) (bool, error) {
	return s.deletePendingFn(ctx, id)
}
func (s *swapRepoStub) PendingExists(ctx context.Context, requesterID, wantedSkillID uint) (bool, error) {
	return s.pendingExistsFn(ctx, requesterID, wantedSkillID)
}
func (s *swapRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *swapRepoStub) CountByStatus(ctx context.Context, status models.SwapStatus) (int64, error) {
	return s.countByStatusFn(ctx, status)
}

func noopSwapRepo() *swapRepoStub {
	return &swapRepoStub{
		createFn:            func(context.Context, *models.SwapRequest) error { return nil },
		getByIDFn:           func(context.Context, uint) (*models.SwapRequest, error) { return &models.SwapRequest{}, nil },
		listByRequesterFn:   func(context.Context, uint, int, int) ([]models.SwapRequest, error) { return nil, nil },
		listByProviderFn:    func(context.Context, uint, int, int) ([]models.SwapRequest, error) { return nil, nil },
		listByParticipantFn: func(context.Context, uint, int, int) ([]models.SwapRequest, error) { return nil, nil },
		transitionStatusFn: func(context.Context, uint, []models.SwapStatus, models.SwapStatus) (bool, error) {
			return true, nil
		},
		deletePendingFn: func(context.Context, uint) (bool, error) { return true, nil },
		pendingExistsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		countFn:         func(context.Context) (int64, error) { return 0, nil },
		countByStatusFn: func(context.Context, models.SwapStatus) (int64, error) { return 0, nil },
	}
}

type ratingRepoStub struct {
	upsertFn                 func(context.Context, *models.Rating) error
	getBySwapAndRaterFn      func(context.Context, uint, uint) (*models.Rating, error)
	listForUserFn            func(context.Context, uint, int, int) ([]models.Rating, error)
	recomputeUserAggregateFn func(context.Context, uint) error
	countFn                  func(context.Context) (int64, error)
}

func (s *ratingRepoStub) Upsert(ctx context.Context, rating *models.Rating) error {
	return s.upsertFn(ctx, rating)
}
func (s *ratingRepoStub) GetBySwapAndRater(ctx context.Context, swapID, raterID uint) (*models.Rating, error) {
	return s.getBySwapAndRaterFn(ctx, swapID, raterID)
}
func (s *ratingRepoStub) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error) {
	return s.listForUserFn(ctx, userID, limit, offset)
}
func (s *ratingRepoStub) RecomputeUserAggregate(ctx context.Context, userID uint) error {
	return s.recomputeUserAggregateFn(ctx, userID)
}
func (s *ratingRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopRatingRepo() *ratingRepoStub {
	return &ratingRepoStub{
		upsertFn:                 func(context.Context, *models.Rating) error { return nil },
		getBySwapAndRaterFn:      func(context.Context, uint, uint) (*models.Rating, error) { return &models.Rating{}, nil },
		listForUserFn:            func(context.Context, uint, int, int) ([]models.Rating, error) { return nil, nil },
		recomputeUserAggregateFn: func(context.Context, uint) error { return nil },
		countFn:                  func(context.Context) (int64, error) { return 0, nil },
	}
}

type adminMessageRepoStub struct {
	createFn  func(context.Context, *models.AdminMessage) error
	getByIDFn func(context.Context, uint) (*models.AdminMessage, error)
	listFn    func(context.Context, int, int) ([]models.AdminMessage, error)
	deleteFn  func(context.Context, uint) error
}

func (s *adminMessageRepoStub) Create(ctx context.Context, message *models.AdminMessage) error {
	return s.createFn(ctx, message)
}
func (s *adminMessageRepoStub) GetByID(ctx context.Context, id uint) (*models.AdminMessage, error) {
	return s.getByIDFn(ctx, id)
}
func (s *adminMessageRepoStub) List(ctx context.Context, limit, offset int) ([]models.AdminMessage, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *adminMessageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopAdminMessageRepo() *adminMessageRepoStub {
	return &adminMessageRepoStub{
		createFn:  func(context.Context, *models.AdminMessage) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.AdminMessage, error) { return &models.AdminMessage{}, nil },
		listFn:    func(context.Context, int, int) ([]models.AdminMessage, error) { return nil, nil },
		deleteFn:  func(context.Context, uint) error { return nil },
	}
}
