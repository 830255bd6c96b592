package config

import (
	"strings"
	"testing"
	"time"
)

func TestNewAPIDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GATEWAY_PUSH_URL", "http://192.168.1.40/authorised")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := NewAPI()
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	if cfg.Gateway.PushTimeout != 5*time.Second || cfg.Events.Driver != "none" {
		t.Errorf("defaults = %+v %+v", cfg.Gateway, cfg.Events)
	}
	if cfg.Reconcile.GracePeriod != 2*time.Minute || cfg.Reconcile.BatchSize != 100 {
		t.Errorf("reconcile = %+v", cfg.Reconcile)
	}
}

func TestNewAPIValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres"}, "PG_URL"},
		{"mongo without uri", map[string]string{"STORE_DRIVER": "mongo"}, "MONGO_URI"},
		{"unknown store", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"missing s3", map[string]string{"STORE_DRIVER": "postgres", "PG_URL": "postgres://x"}, "S3_ENDPOINT"},
		{"kafka without brokers", map[string]string{
			"STORE_DRIVER": "postgres", "PG_URL": "postgres://x",
			"S3_ENDPOINT": "http://minio:9000", "S3_ACCESS_KEY": "a", "S3_SECRET_KEY": "b",
			"EVENTS_DRIVER": "kafka",
		}, "KAFKA_BROKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HTTP_PORT", "8080")
			t.Setenv("LOG_LEVEL", "info")
			t.Setenv("GATEWAY_PUSH_URL", "http://gw/authorised")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := NewAPI()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestNewGatewayDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("CAMERA_CAPTURE_URL", "http://192.168.1.41/capture")

	cfg, err := NewGateway()
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	if cfg.Listener.Port != "80" || cfg.Listener.ReadTimeout != 10*time.Second || cfg.Listener.BufferSize != 2048 {
		t.Errorf("listener = %+v", cfg.Listener)
	}
	if cfg.Wifi.Attempts != 5 || cfg.Wifi.Backoff != 2*time.Second || cfg.Wifi.Polls != 20 {
		t.Errorf("wifi = %+v", cfg.Wifi)
	}
	if cfg.Sensor.ThresholdCM != 20 || cfg.Sensor.EchoTimeout != 100*time.Millisecond {
		t.Errorf("sensor = %+v", cfg.Sensor)
	}
	if cfg.Display.Address != 0x27 {
		t.Errorf("display address = %#x", cfg.Display.Address)
	}
}

func TestNewCameraFileSourceNeedsPath(t *testing.T) {
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("API_BASE_URL", "http://api:8080")
	t.Setenv("FRAME_SOURCE", "file")

	if _, err := NewCamera(); err == nil {
		t.Fatal("NewCamera accepted a file source without a path")
	}

	t.Setenv("FRAME_PATH", "/var/lib/camera/frame.jpg")

	cfg, err := NewCamera()
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	if cfg.Frame.Settle != 500*time.Millisecond || len(cfg.Frame.Args) != 5 {
		t.Errorf("frame = %+v", cfg.Frame)
	}
}
