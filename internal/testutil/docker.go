package testutil

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not available, skipping integration test")
	}
	if err := exec.Command("docker", "info").Run(); err != nil {
		t.Skip("docker daemon not reachable, skipping integration test")
	}
}

func dockerRun(ctx context.Context, args []string) error {
	return exec.CommandContext(ctx, "docker", args...).Run()
}

func dockerStop(containerName string) error {
	return exec.Command("docker", "stop", containerName).Run()
}

func waitForPort(ctx context.Context, t *testing.T, containerName, containerPort string) string {
	t.Helper()

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		out, err := exec.CommandContext(ctx, "docker", "port", containerName, containerPort).Output()
		if err == nil {
			for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
				if idx := strings.LastIndex(line, ":"); idx >= 0 && idx < len(line)-1 {
					return line[idx+1:]
				}
			}
		}
		time.Sleep(250 * time.Millisecond)
	}

	t.Fatalf("container %s did not expose port %s in time", containerName, containerPort)
	return ""
}
