package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	StorageBackendMinIO = "minio"
	StorageBackendGCS   = "gcs"

	DocStoreBackendPostgres  = "postgres"
	DocStoreBackendFirestore = "firestore"

	InferenceTransportHTTP = "http"
	InferenceTransportGRPC = "grpc"
)

type Config struct {
	Http      *HTTPConfig
	Storage   *StorageCfg
	Minio     *MinIOCfg
	GCS       *GCSCfg
	DocStore  *DocStoreCfg
	Db        *PGDBCfg
	Firestore *FirestoreCfg
	Redis     *RedisCfg
	Inference *InferenceCfg
	Auth      *AuthCfg
	Kafka     *KafkaCfg
}

type HTTPConfig struct {
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxUploadSize int64 // максимальный размер тела запроса с изображением, байт
	SwaggerURL    string
}

// StorageCfg описывает пространства имён объектов и время жизни ссылок.
type StorageCfg struct {
	Backend         string
	TempPrefix      string        // временные загрузки до классификации
	PermanentPrefix string        // изображения с успешной классификацией
	SignedURLTTL    time.Duration // время жизни подписанной ссылки
	CleanupTimeout  time.Duration // таймаут удаления временного объекта
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
}

// GCSCfg — бакет Firebase Storage (Google Cloud Storage).
type GCSCfg struct {
	BucketName      string
	SignerEmail     string // сервисный аккаунт для подписи ссылок; пусто — берётся из credentials клиента
	SignerKeyFile   string // PEM-файл приватного ключа сервисного аккаунта
	CredentialsFile string
}

type DocStoreCfg struct {
	Backend string
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsURL string
}

type FirestoreCfg struct {
	ProjectID         string
	HistoryCollection string
	UsersCollection   string
	CredentialsFile   string
}

type RedisCfg struct {
	Enabled     bool
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	RecordTTL   time.Duration
}

type InferenceCfg struct {
	Transport string
	HTTPURL   string // базовый адрес REST-сервиса (POST {HTTPURL}/predict)
	GRPCAddr  string
	Timeout   time.Duration
}

type AuthCfg struct {
	ProjectID      string
	JWKSURL        string
	Issuer         string
	Audience       string
	SigningMethods []string
}

type KafkaCfg struct {
	Enabled           bool
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storage, err := loadStorageCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log, storage.Backend)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	gcs, err := loadGCSCfg(storage.Backend)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	docStore, err := loadDocStoreCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var db *PGDBCfg
	if docStore.Backend == DocStoreBackendPostgres {
		db, err = loadPGDBCfg(log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	firestore, err := loadFirestoreCfg(docStore.Backend)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	inference, err := loadInferenceCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	auth, err := loadAuthCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:      http,
		Storage:   storage,
		Minio:     minio,
		GCS:       gcs,
		DocStore:  docStore,
		Db:        db,
		Firestore: firestore,
		Redis:     redis,
		Inference: inference,
		Auth:      auth,
		Kafka:     kafka,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort          = "8080"
		defaultReadTimeout   = 15 * time.Second
		defaultWriteTimeout  = 60 * time.Second
		defaultIdleTimeout   = 60 * time.Second
		defaultMaxUploadSize = 10 << 20
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	maxUploadSize, err := parseIntEnv("MAX_UPLOAD_SIZE", defaultMaxUploadSize)
	if err != nil || maxUploadSize <= 0 {
		log.Errorf(err, "invalid MAX_UPLOAD_SIZE")
		return nil, e.Wrap("MAX_UPLOAD_SIZE", e.ErrIncorrectEnvVariable)
	}

	port := getEnvOrDefault("HTTP_PORT", getEnvOrDefault("PORT", defaultPort))

	return &HTTPConfig{
		Port:          port,
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		IdleTimeout:   idleTimeout,
		MaxUploadSize: int64(maxUploadSize),
		SwaggerURL:    getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadStorageCfg(log logger.Logger) (*StorageCfg, error) {
	const (
		defaultTempPrefix      = "tempImages"
		defaultPermanentPrefix = "predictedUploads"
		defaultCleanupTimeout  = 10 * time.Second
		// ссылка на изображение в истории фактически бессрочная
		defaultSignedURLTTL = 100 * 365 * 24 * time.Hour
	)

	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageBackendMinIO))
	if backend != StorageBackendMinIO && backend != StorageBackendGCS {
		return nil, e.Wrap("STORAGE_BACKEND="+backend, e.ErrIncorrectEnvVariable)
	}

	ttl, err := parseDurationEnv("SIGNED_URL_TTL", defaultSignedURLTTL)
	if err != nil {
		log.Errorf(err, "invalid SIGNED_URL_TTL")
		return nil, err
	}

	cleanupTimeout, err := parseDurationEnv("CLEANUP_TIMEOUT", defaultCleanupTimeout)
	if err != nil {
		log.Errorf(err, "invalid CLEANUP_TIMEOUT")
		return nil, err
	}

	tempPrefix := strings.Trim(getEnvOrDefault("TEMP_PREFIX", defaultTempPrefix), "/")
	permanentPrefix := strings.Trim(getEnvOrDefault("PERMANENT_PREFIX", defaultPermanentPrefix), "/")
	if tempPrefix == "" || permanentPrefix == "" || tempPrefix == permanentPrefix {
		return nil, e.Wrap("TEMP_PREFIX/PERMANENT_PREFIX", e.ErrIncorrectEnvVariable)
	}

	return &StorageCfg{
		Backend:         backend,
		TempPrefix:      tempPrefix,
		PermanentPrefix: permanentPrefix,
		SignedURLTTL:    ttl,
		CleanupTimeout:  cleanupTimeout,
	}, nil
}

func loadMinIOCfg(log logger.Logger, backend string) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	if backend != StorageBackendMinIO {
		return nil, nil
	}

	useSSL, err := parseBoolEnv("MINIO_USE_SSL", defaultUseSSL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	bucket := getEnv("BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("BUCKET_NAME environment variable is required")
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        bucket,
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadGCSCfg(backend string) (*GCSCfg, error) {
	if backend != StorageBackendGCS {
		return nil, nil
	}

	bucket := getEnv("FIREBASE_STORAGE_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET environment variable is required")
	}

	return &GCSCfg{
		BucketName:      bucket,
		SignerEmail:     getEnv("GCS_SIGNER_EMAIL"),
		SignerKeyFile:   getEnv("GCS_SIGNER_KEY_FILE"),
		CredentialsFile: getEnv("SERVICE_ACCOUNT_PATH"),
	}, nil
}

func loadDocStoreCfg() (*DocStoreCfg, error) {
	backend := strings.ToLower(getEnvOrDefault("DOCSTORE_BACKEND", DocStoreBackendPostgres))
	if backend != DocStoreBackendPostgres && backend != DocStoreBackendFirestore {
		return nil, e.Wrap("DOCSTORE_BACKEND="+backend, e.ErrIncorrectEnvVariable)
	}

	return &DocStoreCfg{Backend: backend}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMigrationsURL = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsURL: getEnvOrDefault("MIGRATIONS_URL", defaultMigrationsURL),
	}, nil
}

func loadFirestoreCfg(backend string) (*FirestoreCfg, error) {
	if backend != DocStoreBackendFirestore {
		return nil, nil
	}

	projectID := getEnvOrDefault("FIRESTORE_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT"))
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID environment variable is required")
	}

	return &FirestoreCfg{
		ProjectID:         projectID,
		HistoryCollection: getEnvOrDefault("FIRESTORE_HISTORY_COLLECTION", "predict_history"),
		UsersCollection:   getEnvOrDefault("FIRESTORE_USERS_COLLECTION", "users"),
		CredentialsFile:   getEnv("SERVICE_ACCOUNT_PATH"),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultRecordTTL    = 10 * time.Minute
	)

	enabled, err := parseBoolEnv("REDIS_ENABLED", true)
	if err != nil {
		log.Errorf(err, "invalid REDIS_ENABLED")
		return nil, err
	}

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	recordTTL, err := parseDurationEnv("RECORD_TTL", defaultRecordTTL)
	if err != nil {
		log.Errorf(err, "invalid RECORD_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Enabled:     enabled,
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		RecordTTL:   recordTTL,
	}, nil
}

func loadInferenceCfg(log logger.Logger) (*InferenceCfg, error) {
	const (
		defaultGRPCHost = "ml-service"
		defaultGRPCPort = "50051"
		defaultTimeout  = 30 * time.Second
	)

	transport := strings.ToLower(getEnvOrDefault("INFERENCE_TRANSPORT", InferenceTransportHTTP))

	timeout, err := parseDurationEnv("INFERENCE_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid INFERENCE_TIMEOUT")
		return nil, err
	}

	res := &InferenceCfg{
		Transport: transport,
		Timeout:   timeout,
	}

	switch transport {
	case InferenceTransportHTTP:
		res.HTTPURL = strings.TrimRight(getEnv("FASTAPI_SERVICE"), "/")
		if res.HTTPURL == "" {
			return nil, fmt.Errorf("FASTAPI_SERVICE environment variable is required")
		}
	case InferenceTransportGRPC:
		host := getEnvOrDefault("ROBIN_GRPC_SERVICE", defaultGRPCHost)
		port := getEnvOrDefault("ROBIN_GRPC_PORT", defaultGRPCPort)
		res.GRPCAddr = host + ":" + port
	default:
		return nil, e.Wrap("INFERENCE_TRANSPORT="+transport, e.ErrIncorrectEnvVariable)
	}

	return res, nil
}

func loadAuthCfg() (*AuthCfg, error) {
	const (
		defaultJWKSURL       = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
		defaultIssuerPrefix  = "https://securetoken.google.com/"
		defaultSigningMethod = "RS256"
	)

	projectID := getEnv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID environment variable is required")
	}

	methods := strings.Split(getEnvOrDefault("AUTH_SIGNING_METHODS", defaultSigningMethod), ",")
	for i := range methods {
		methods[i] = strings.TrimSpace(methods[i])
	}

	return &AuthCfg{
		ProjectID:      projectID,
		JWKSURL:        getEnvOrDefault("AUTH_JWKS_URL", defaultJWKSURL),
		Issuer:         getEnvOrDefault("AUTH_ISSUER", defaultIssuerPrefix+projectID),
		Audience:       getEnvOrDefault("AUTH_AUDIENCE", projectID),
		SigningMethods: methods,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	enabled, err := parseBoolEnv("KAFKA_ENABLED", false)
	if err != nil {
		return nil, e.Wrap("KAFKA_ENABLED", err)
	}
	if !enabled {
		return &KafkaCfg{Enabled: false}, nil
	}

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := getEnvOrDefault("KAFKA_TOPIC", "prediction-events")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Enabled:           true,
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return b, nil
}
