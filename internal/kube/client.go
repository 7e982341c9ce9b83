// Package kube reads and writes Secrets in a Kubernetes cluster.
package kube

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/vietdv277/kse/pkg/provider"
)

// Swappable so tests can avoid a real cluster.
var (
	inClusterConfig      = rest.InClusterConfig
	buildConfigFromFlags = clientcmd.BuildConfigFromFlags
	newForConfig         = kubernetes.NewForConfig
)

// DefaultNamespace is used when neither the manifest nor the caller names one.
const DefaultNamespace = "default"

type Client struct {
	ClientSet kubernetes.Interface

	// Namespace is used for refs without a namespace
	Namespace string
}

// NewClient creates a Kubernetes client. It tries the in-cluster config
// first, then kubeconfig, then $HOME/.kube/config.
func NewClient(kubeconfig, namespace string) (*Client, error) {
	config, err := inClusterConfig()
	if err != nil {
		if kubeconfig == "" {
			kubeconfig = filepath.Join(os.Getenv("HOME"), ".kube", "config")
		}
		config, err = buildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load kubeconfig: %w", provider.ErrNotConfigured, err)
		}
	}

	return NewClientWithConfig(config, namespace)
}

// NewClientWithConfig creates a client from an existing rest config.
func NewClientWithConfig(config *rest.Config, namespace string) (*Client, error) {
	clientset, err := newForConfig(config)
	if err != nil {
		return nil, err
	}
	return &Client{ClientSet: clientset, Namespace: namespace}, nil
}

// Name implements provider.Source.
func (c *Client) Name() string {
	return "kubernetes"
}

func (c *Client) namespace(ns string) string {
	switch {
	case ns != "":
		return ns
	case c.Namespace != "":
		return c.Namespace
	default:
		return DefaultNamespace
	}
}
