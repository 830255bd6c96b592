package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	// API is the central status service.
	API struct {
		HTTP      HTTP
		Log       Log
		Store     Store
		PG        PG
		Mongo     Mongo
		S3        S3
		Events    Events
		Kafka     Kafka
		NATS      NATS
		Gateway   Gateway
		Reconcile Reconcile
		Swagger   Swagger
	}

	// Camera is the capture node.
	Camera struct {
		HTTP      HTTP
		Log       Log
		Upload    Upload
		Frame     Frame
		Indicator Indicator
		Legacy    Legacy
	}

	// GatewayNode is the sensor and display node.
	GatewayNode struct {
		Log      Log
		Camera   CameraLink
		Listener Listener
		Wifi     Wifi
		Sensor   Sensor
		Display  Display
	}

	HTTP struct {
		Port            string        `env:"HTTP_PORT,required"`
		UsePreforkMode  bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		BodyLimit       int           `env:"HTTP_BODY_LIMIT" envDefault:"8388608"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"3s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	Store struct {
		Driver string `env:"STORE_DRIVER" envDefault:"postgres"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX" envDefault:"4"`
		URL     string `env:"PG_URL"`
		Migrate bool   `env:"PG_MIGRATE" envDefault:"true"`
	}

	Mongo struct {
		URI      string `env:"MONGO_URI"`
		Database string `env:"MONGO_DATABASE" envDefault:"access_gate"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT"`
		AccessKey      string        `env:"S3_ACCESS_KEY"`
		SecretKey      string        `env:"S3_SECRET_KEY"`
		Bucket         string        `env:"S3_BUCKET" envDefault:"pictures"`
		Region         string        `env:"S3_REGION" envDefault:"us-east-1"`
		PublicBaseURL  string        `env:"S3_PUBLIC_BASE_URL"`
		CreateBucket   bool          `env:"S3_CREATE_BUCKET" envDefault:"false"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Events struct {
		Driver string `env:"EVENTS_DRIVER" envDefault:"none"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS"`
		Topic   string   `env:"KAFKA_TOPIC" envDefault:"access-gate.decisions"`
	}

	NATS struct {
		URL           string `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
		SubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"access-gate"`
	}

	Gateway struct {
		PushURL     string        `env:"GATEWAY_PUSH_URL,required"`
		PushTimeout time.Duration `env:"GATEWAY_PUSH_TIMEOUT" envDefault:"5s"`
	}

	Reconcile struct {
		Interval        time.Duration `env:"RECONCILE_INTERVAL" envDefault:"1m"`
		GracePeriod     time.Duration `env:"RECONCILE_GRACE_PERIOD" envDefault:"2m"`
		SweepTimeout    time.Duration `env:"RECONCILE_SWEEP_TIMEOUT" envDefault:"15s"`
		BatchSize       int           `env:"RECONCILE_BATCH_SIZE" envDefault:"100"`
		ShutdownTimeout time.Duration `env:"RECONCILE_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}

	Upload struct {
		APIBaseURL string        `env:"API_BASE_URL,required"`
		Timeout    time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"15s"`
	}

	Frame struct {
		Source         string        `env:"FRAME_SOURCE" envDefault:"command"`
		Path           string        `env:"FRAME_PATH"`
		Command        string        `env:"FRAME_COMMAND" envDefault:"libcamera-still"`
		Args           []string      `env:"FRAME_COMMAND_ARGS" envDefault:"-n,-t,1,-o,-"`
		CommandTimeout time.Duration `env:"FRAME_COMMAND_TIMEOUT" envDefault:"10s"`
		Width          int           `env:"FRAME_WIDTH" envDefault:"1024"`
		Height         int           `env:"FRAME_HEIGHT" envDefault:"768"`
		Quality        int           `env:"FRAME_JPEG_QUALITY" envDefault:"85"`
		Timestamp      bool          `env:"FRAME_TIMESTAMP" envDefault:"false"`
		Settle         time.Duration `env:"FLASH_SETTLE" envDefault:"500ms"`
	}

	Indicator struct {
		Driver        string `env:"INDICATOR_DRIVER" envDefault:"log"`
		Root          string `env:"INDICATOR_SYSFS_ROOT" envDefault:"/sys/class/leds"`
		Name          string `env:"INDICATOR_NAME" envDefault:"flash"`
		MaxBrightness int    `env:"INDICATOR_MAX_BRIGHTNESS" envDefault:"255"`
	}

	Legacy struct {
		// Empty disables the datagram responder.
		Address  string        `env:"LEGACY_LINK_ADDRESS"`
		ChunkGap time.Duration `env:"LEGACY_LINK_CHUNK_GAP" envDefault:"10ms"`
	}

	CameraLink struct {
		CaptureURL string        `env:"CAMERA_CAPTURE_URL,required"`
		Timeout    time.Duration `env:"CAMERA_CAPTURE_TIMEOUT" envDefault:"30s"`
	}

	Listener struct {
		Port        string        `env:"LISTEN_PORT" envDefault:"80"`
		ReadTimeout time.Duration `env:"LISTEN_READ_TIMEOUT" envDefault:"10s"`
		BufferSize  int           `env:"LISTEN_BUFFER_SIZE" envDefault:"2048"`
	}

	Wifi struct {
		Driver     string        `env:"WIFI_DRIVER" envDefault:"host"`
		Interface  string        `env:"WIFI_INTERFACE" envDefault:"wlan0"`
		SSID       string        `env:"WIFI_SSID"`
		Password   string        `env:"WIFI_PASSWORD"`
		Command    string        `env:"WIFI_COMMAND" envDefault:"nmcli"`
		Attempts   int           `env:"WIFI_ATTEMPTS" envDefault:"5"`
		Backoff    time.Duration `env:"WIFI_BACKOFF" envDefault:"2s"`
		Polls      int           `env:"WIFI_ADDRESS_POLLS" envDefault:"20"`
		PollPeriod time.Duration `env:"WIFI_ADDRESS_POLL_PERIOD" envDefault:"100ms"`
	}

	Sensor struct {
		Driver       string        `env:"SENSOR_DRIVER" envDefault:"gpio"`
		GPIORoot     string        `env:"SENSOR_GPIO_ROOT" envDefault:"/sys/class/gpio"`
		TriggerLine  int           `env:"SENSOR_TRIGGER_LINE" envDefault:"5"`
		EchoLine     int           `env:"SENSOR_ECHO_LINE" envDefault:"19"`
		ThresholdCM  float64       `env:"SENSOR_THRESHOLD_CM" envDefault:"20"`
		PollInterval time.Duration `env:"SENSOR_POLL_INTERVAL" envDefault:"100ms"`
		EchoTimeout  time.Duration `env:"SENSOR_ECHO_TIMEOUT" envDefault:"100ms"`
		Debounce     int           `env:"SENSOR_DEBOUNCE" envDefault:"2"`
	}

	Display struct {
		Driver     string        `env:"DISPLAY_DRIVER" envDefault:"log"`
		I2CBus     string        `env:"DISPLAY_I2C_BUS" envDefault:"/dev/i2c-1"`
		Address    uint16        `env:"DISPLAY_I2C_ADDRESS" envDefault:"39"`
		Columns    int           `env:"DISPLAY_COLUMNS" envDefault:"16"`
		Rows       int           `env:"DISPLAY_ROWS" envDefault:"2"`
		BusTimeout time.Duration `env:"DISPLAY_BUS_TIMEOUT" envDefault:"50ms"`
	}
)

func NewAPI() (*API, error) {
	cfg := &API{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func NewCamera() (*Camera, error) {
	cfg := &Camera{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if cfg.Frame.Source == "file" && cfg.Frame.Path == "" {
		return nil, fmt.Errorf("config error: FRAME_PATH is required for the file source")
	}

	return cfg, nil
}

func NewGateway() (*GatewayNode, error) {
	cfg := &GatewayNode{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

// validate checks the settings each selected driver needs.
func (c *API) validate() error {
	switch c.Store.Driver {
	case "postgres":
		if c.PG.URL == "" {
			return fmt.Errorf("PG_URL is required for STORE_DRIVER=postgres")
		}
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for STORE_DRIVER=mongo")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	// the memory store keeps blobs in memory too
	if c.Store.Driver != "memory" && (c.S3.Endpoint == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "") {
		return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required")
	}

	switch c.Events.Driver {
	case "none", "nats":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required for EVENTS_DRIVER=kafka")
		}
	default:
		return fmt.Errorf("unknown EVENTS_DRIVER %q", c.Events.Driver)
	}

	return nil
}
