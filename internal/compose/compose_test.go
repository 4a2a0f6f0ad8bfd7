package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpArgs(t *testing.T) {
	args := upArgs("localai", UpOptions{
		Files:   []string{"docker-compose.yml", "docker-compose.override.private.yml"},
		Profile: "cpu",
	})
	assert.Equal(t, []string{
		"compose", "-p", "localai",
		"--profile", "cpu",
		"-f", "docker-compose.yml",
		"-f", "docker-compose.override.private.yml",
		"up", "-d",
	}, args)
}

func TestUpArgsWithBuild(t *testing.T) {
	args := upArgs("localai", UpOptions{
		Files: []string{"docker-compose.yml"},
		Build: true,
	})
	assert.Equal(t, []string{
		"compose", "-p", "localai",
		"-f", "docker-compose.yml",
		"up", "-d", "--build",
	}, args)
}

func TestUpArgsSkipsEmptyFiles(t *testing.T) {
	args := upArgs("localai", UpOptions{
		Files: []string{"docker-compose.yml", "", "override.yml"},
	})
	assert.Equal(t, []string{
		"compose", "-p", "localai",
		"-f", "docker-compose.yml",
		"-f", "override.yml",
		"up", "-d",
	}, args)
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("localai", BuildOptions{
		Files:   []string{"docker-compose.yml"},
		Profile: "gpu-nvidia",
	})
	assert.Equal(t, []string{
		"compose", "-p", "localai",
		"--profile", "gpu-nvidia",
		"-f", "docker-compose.yml",
		"build",
	}, args)
}

func TestDownArgs(t *testing.T) {
	args := downArgs("localai", DownOptions{
		Files: []string{"supabase/docker/docker-compose.yml"},
	})
	assert.Equal(t, []string{
		"compose", "-p", "localai",
		"-f", "supabase/docker/docker-compose.yml",
		"down",
	}, args)
}
