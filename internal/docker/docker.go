package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rollup-graphx/internal/config"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// ContainerName is the fixed name of the Neo4j container managed by
// rollup-graphx. Using a fixed name lets start and stop find it without
// tracking state between invocations.
const ContainerName = "rollup-graphx-neo4j"

// StartContainerOptions configures StartContainer.
type StartContainerOptions struct {
	Config *config.Config
}

// StartContainer pulls the configured Neo4j image if needed and starts it in
// the background with the ports and credentials from the configuration. Data
// is persisted in the local neo4j-data directory.
func StartContainer(ctx context.Context, opts StartContainerOptions) error {
	cfg := opts.Config
	if cfg.Neo4j.Password == "" {
		return fmt.Errorf("neo4j password is not set: run 'rollup-graphx init' first")
	}

	imageName := cfg.Neo4j.DockerImage
	if imageName == "" {
		imageName = "neo4j:community"
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("failed to create Docker client: %w", err)
	}
	defer cli.Close()

	if id, running, err := findContainer(ctx, cli); err != nil {
		return err
	} else if id != "" {
		if running {
			fmt.Printf("Container %s is already running\n", ContainerName)
			return nil
		}
		fmt.Printf("Starting existing container %s...\n", ContainerName)
		if err := cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
			return fmt.Errorf("failed to start existing container: %w", err)
		}
		fmt.Printf("✓ Container %s started\n", ContainerName)
		return nil
	}

	fmt.Printf("Pulling image %s...\n", imageName)
	reader, err := cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	// The pull is asynchronous; drain the stream so it completes before we
	// create the container.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		reader.Close()
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	reader.Close()

	dataDir, err := filepath.Abs("neo4j-data")
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	portBindings := nat.PortMap{
		"7474/tcp": []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "7474"}},
		"7687/tcp": []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "7687"}},
	}

	containerConfig := &container.Config{
		Image: imageName,
		Env: []string{
			fmt.Sprintf("NEO4J_AUTH=%s/%s", cfg.Neo4j.User, cfg.Neo4j.Password),
		},
		ExposedPorts: nat.PortSet{
			"7474/tcp": struct{}{},
			"7687/tcp": struct{}{},
		},
	}

	hostConfig := &container.HostConfig{
		PortBindings: portBindings,
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: dataDir,
				Target: "/data",
			},
		},
	}

	fmt.Printf("Creating container %s...\n", ContainerName)
	created, err := cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, ContainerName)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	if err := cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}

	fmt.Printf("✓ Container %s started\n", ContainerName)
	fmt.Printf("  Browser: http://localhost:7474\n")
	fmt.Printf("  Bolt:    %s\n", cfg.Neo4j.URI)
	return nil
}

// StopContainer stops and removes the managed Neo4j container, preserving
// the neo4j-data directory.
func StopContainer(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("failed to create Docker client: %w", err)
	}
	defer cli.Close()

	id, _, err := findContainer(ctx, cli)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("container %s not found", ContainerName)
	}

	fmt.Printf("Stopping container %s...\n", ContainerName)
	timeout := 10 // seconds
	if err := cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		// Container might already be stopped, try to remove anyway
		fmt.Printf("Warning: failed to stop container: %v\n", err)
	} else {
		fmt.Printf("✓ Container stopped\n")
	}

	fmt.Printf("Removing container %s...\n", ContainerName)
	if err := cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}

	fmt.Printf("✓ Container %s removed successfully\n", ContainerName)
	fmt.Printf("\nNote: Data has been preserved in the neo4j-data directory\n")
	return nil
}

// findContainer looks up the managed container by name. It returns the
// container ID (empty when absent) and whether it is currently running.
func findContainer(ctx context.Context, cli *client.Client) (string, bool, error) {
	containers, err := cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return "", false, fmt.Errorf("failed to list containers: %w", err)
	}

	for _, c := range containers {
		for _, name := range c.Names {
			if name == "/"+ContainerName {
				return c.ID, c.State == "running", nil
			}
		}
	}
	return "", false, nil
}
