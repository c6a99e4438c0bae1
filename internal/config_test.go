package internal_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/association-management/internal"
)

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
		},
		Database: internal.DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			Source:       "postgres://localhost:5432/associacao",
		},
		Security: internal.SecurityConfig{
			AccessTokenSecret:    "access-secret-access-secret-access-secret",
			RefreshTokenSecret:   "refresh-secret-refresh-secret-refresh-secret",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
			BCryptCost:           10,
		},
		Storage: internal.StorageConfig{
			Endpoint:  "http://localhost:9000",
			Bucket:    "documentos",
			AccessKey: "minio",
			SecretKey: "minio123",
		},
		Mail: internal.MailConfig{Provider: "log"},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("rejects identical token secrets", func() {
		cfg := validConfig()
		cfg.Security.RefreshTokenSecret = cfg.Security.AccessTokenSecret
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("secrets must differ")))
	})

	It("rejects more idle than open connections", func() {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 20
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("requires a sendgrid key when sendgrid is selected", func() {
		cfg := validConfig()
		cfg.Mail.Provider = "sendgrid"
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("defaults the upload limit to 10MB", func() {
		cfg := validConfig()
		Expect(cfg.Server.MaxUploadBytes()).To(Equal(int64(10 << 20)))
		cfg.Server.MaxUploadSizeMB = 2
		Expect(cfg.Server.MaxUploadBytes()).To(Equal(int64(2 << 20)))
	})

	Describe("LoadConfigFromEnv", func() {
		BeforeEach(func() {
			os.Setenv("HTTP_PORT", "9090")
			os.Setenv("MAIL_BATCH_DELAY", "250ms")
		})

		AfterEach(func() {
			os.Unsetenv("HTTP_PORT")
			os.Unsetenv("MAIL_BATCH_DELAY")
		})

		It("reads values and defaults from the environment", func() {
			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Server.Port).To(Equal(9090))
			Expect(cfg.Mail.BatchDelay).To(Equal(250 * time.Millisecond))
			Expect(cfg.Mail.Provider).To(Equal("log"))
			Expect(cfg.Storage.Bucket).To(Equal("documentos"))
		})
	})
})
