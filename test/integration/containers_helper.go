package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultPostgresTestImage = "docker.io/library/postgres:16-alpine"
	defaultRabbitMQTestImage = "docker.io/library/rabbitmq:3.13-alpine"
)

func imageFromEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("resolve %s host: %v", req.Image, err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("resolve %s port: %v", req.Image, err)
	}
	return net.JoinHostPort(host, mapped.Port())
}

// startPostgres returns a DATABASE_URL for a throwaway postgres instance.
func startPostgres(t *testing.T) string {
	t.Helper()
	addr := startContainer(t, testcontainers.ContainerRequest{
		Image: imageFromEnv("POSTGRES_TEST_IMAGE", defaultPostgresTestImage),
		Env: map[string]string{
			"POSTGRES_USER":     "credential",
			"POSTGRES_PASSWORD": "credential",
			"POSTGRES_DB":       "credential_it",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")
	return fmt.Sprintf("postgres://credential:credential@%s/credential_it?sslmode=disable", addr)
}

// startRabbitMQ returns an AMQP URL for a throwaway broker.
func startRabbitMQ(t *testing.T) string {
	t.Helper()
	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        imageFromEnv("RABBITMQ_TEST_IMAGE", defaultRabbitMQTestImage),
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor: wait.ForLog("Server startup complete").
			WithStartupTimeout(90 * time.Second),
	}, "5672/tcp")
	return "amqp://guest:guest@" + addr + "/"
}
