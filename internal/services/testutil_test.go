package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Init()
}

// setupTestDB opens a per-test in-memory database to avoid cross-test
// interference.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserCredits{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.UserActivity{},
		&models.UserMatch{},
		&models.Meeting{},
		&models.MeetingParticipant{},
		&models.TierLimits{},
		&models.TierContactRule{},
		&models.AdminLog{},
		&models.Notification{},
	))

	return db
}

// captureEmailSender records dispatched emails for assertions.
type captureEmailSender struct {
	sent []string
}

func (s *captureEmailSender) SendInvestigationResolvedEmail(address string, data InvestigationEmailData) error {
	s.sent = append(s.sent, address)
	return nil
}

type testEnv struct {
	db            *gorm.DB
	users         *repositories.UserRepository
	credits       *repositories.CreditRepository
	wallets       *repositories.WalletRepository
	activities    *repositories.ActivityRepository
	matches       *repositories.MatchRepository
	meetings      *repositories.MeetingRepository
	tiers         *repositories.TierRepository
	adminLogs     *repositories.AdminLogRepository
	notifications *repositories.NotificationRepository
	emails        *captureEmailSender

	activityService      *ActivityService
	meetingService       *MeetingService
	investigationService *InvestigationService
	adminService         *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	env := &testEnv{
		db:            db,
		users:         repositories.NewUserRepository(db),
		credits:       repositories.NewCreditRepository(db),
		wallets:       repositories.NewWalletRepository(db),
		activities:    repositories.NewActivityRepository(db),
		matches:       repositories.NewMatchRepository(db),
		meetings:      repositories.NewMeetingRepository(db),
		tiers:         repositories.NewTierRepository(db),
		adminLogs:     repositories.NewAdminLogRepository(db),
		notifications: repositories.NewNotificationRepository(db),
		emails:        &captureEmailSender{},
	}

	require.NoError(t, env.tiers.SeedDefaults())

	notifier := NewDBNotifier(env.notifications)
	env.activityService = NewActivityService(db, env.activities, env.matches, env.tiers, env.users, notifier)
	env.meetingService = NewMeetingService(db, env.meetings, env.users, env.credits, env.wallets, env.tiers, env.matches, notifier)
	env.investigationService = NewInvestigationService(db, env.meetings, env.users, env.credits, env.wallets, env.adminLogs, notifier, env.emails)
	env.adminService = NewAdminService(db, env.users, env.wallets, env.tiers, env.adminLogs, notifier)

	return env
}

func (env *testEnv) createUser(t *testing.T, email, tier, role string) *models.User {
	t.Helper()

	user := &models.User{
		Email:         email,
		FullName:      "Test User",
		Tier:          tier,
		Role:          role,
		AccountStatus: models.AccountStatusActive,
	}
	require.NoError(t, env.users.CreateUser(user))
	return user
}

// countNotifications returns how many notifications of one type a user
// has received.
func (env *testEnv) countNotifications(t *testing.T, userID uint, notifType string) int {
	t.Helper()

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, notifType).
		Count(&count).Error)
	return int(count)
}
