//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Container image constants.
const (
	dockerImageName = "sakuraflow"
	dockerImageTag  = "latest"
	dockerfileDir   = "magefiles"
)

// Image groups the container image targets.
type Image mg.Namespace

// containerRuntime returns "podman" or "docker" if a working runtime
// is available, or "" if neither is usable. It checks both that the
// binary exists on PATH and that it can connect to its daemon/machine.
func containerRuntime() string {
	for _, name := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon/machine running?)\n", name)
			continue
		}
		return name
	}
	return ""
}

func requireRuntime() (string, error) {
	rt := containerRuntime()
	if rt == "" {
		return "", fmt.Errorf("no container runtime found (tried podman, docker)")
	}
	return rt, nil
}

// imageRef returns the full image reference (name:tag).
func imageRef() string {
	return dockerImageName + ":" + dockerImageTag
}

// Build builds the container image from magefiles/Dockerfile. The build
// context is the repo root.
func (Image) Build() error {
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Building container image...")
	cmd := exec.Command(rt, "build",
		"-t", imageRef(),
		"-f", filepath.Join(dockerfileDir, "Dockerfile"),
		".")
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Remove removes the container image. Errors are ignored because the image
// may not exist.
func (Image) Remove() {
	rt := containerRuntime()
	if rt == "" {
		return
	}
	fmt.Fprintln(os.Stderr, "Removing container image...")
	_ = exec.Command(rt, "rmi", imageRef()).Run()
}

// Image builds the container image, then runs "sakuraflow version" in it.
func (Test) Image() error {
	mg.Deps(Image.Build)
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	cmd := exec.Command(rt, "run", "--rm", imageRef(), "version")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
