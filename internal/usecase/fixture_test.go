package usecase

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"medilink-api/config"
	"medilink-api/internal/domain/entity"
	"medilink-api/internal/repository"
	"medilink-api/internal/service"
	"medilink-api/internal/testutil"
	"medilink-api/pkg/jwt"
	"medilink-api/pkg/metrics"
	"medilink-api/pkg/storage"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// failingFs refuses to create files whose base name starts with "bad.".
type failingFs struct {
	afero.Fs
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.Contains(name, "_bad.") {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

type fixture struct {
	db       *gorm.DB
	fs       afero.Fs
	files    *storage.Store
	sessions service.SessionStore
	jwt      *jwt.JWTService
	metrics  *metrics.Metrics

	auth          AuthUsecase
	users         UserUsecase
	appointments  AppointmentUsecase
	annonces      AnnonceUsecase
	directory     DirectoryUsecase
	dashboard     *dashboardUsecase
	notifications NotificationUsecase
	auditLogs     AuditLogUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	fs := failingFs{Fs: afero.NewMemMapFs()}
	files := storage.New(fs, "/storage")
	sessions := service.NewMemorySessionStore(cache.New(time.Hour, time.Hour))
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	m := metrics.NewMetrics("medilink")

	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	profileRepo := repository.NewProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	annonceRepo := repository.NewAnnonceRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(log, notificationRepo)
	provisioner := NewProfileProvisioner(log, profileRepo, files)

	return &fixture{
		db:            db,
		fs:            fs,
		files:         files,
		sessions:      sessions,
		jwt:           jwtService,
		metrics:       m,
		auth:          NewAuthUsecase(db, log, userRepo, roleRepo, profileRepo, provisioner, jwtService, sessions, auditService, files, m),
		users:         NewUserUsecase(db, log, userRepo, profileRepo, sessions, auditService, files),
		appointments:  NewAppointmentUsecase(db, log, userRepo, appointmentRepo, profileRepo, notificationService, auditService, m),
		annonces:      NewAnnonceUsecase(db, log, annonceRepo, auditService, files),
		directory:     NewDirectoryUsecase(db, log, userRepo, profileRepo),
		dashboard:     NewDashboardUsecase(db, log, appointmentRepo, annonceRepo, notificationRepo).(*dashboardUsecase),
		notifications: NewNotificationUsecase(db, log, notificationRepo),
		auditLogs:     NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

func (f *fixture) user(t *testing.T, roleID int, name, email string) *entity.User {
	return testutil.CreateUser(t, f.db, roleID, name, email)
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (f *fixture) storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	infos, err := afero.ReadDir(f.fs, "/"+dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
