package config

import "os"

// Config is loaded once at startup from the environment
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	JWTSecret         string
	AdminUsername     string
	AdminPassword     string
	CounselorUsername string
	CounselorPassword string

	// Ids of the three bootstrap demographic questions. The engine reads
	// age/gender/profession answers by these ids.
	AgeQuestionID        string
	GenderQuestionID     string
	ProfessionQuestionID string
}

func Load() *Config {
	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "mindgauge"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnv("HTTP_PORT", "8080"),

		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		CounselorUsername: getEnv("COUNSELOR_USERNAME", "counselor"),
		CounselorPassword: getEnv("COUNSELOR_PASSWORD", "counselor123"),

		AgeQuestionID:        getEnv("AGE_QUESTION_ID", "demo-age"),
		GenderQuestionID:     getEnv("GENDER_QUESTION_ID", "demo-gender"),
		ProfessionQuestionID: getEnv("PROFESSION_QUESTION_ID", "demo-profession"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
