package k8s

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/shadracnicholas/engine/internal/util/ptr"
)

// ErrDeploymentNotFound is returned by CurrentImage for a missing deployment.
var ErrDeploymentNotFound = errors.New("deployment not found")

// ScaleDeployments sets the replica count of every deployment matching the
// selector and returns the names of the scaled deployments.
func (c *Client) ScaleDeployments(ctx context.Context, namespace, labelSelector string, replicas int32) ([]string, error) {
	list, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	var scaled []string
	for i := range list.Items {
		d := &list.Items[i]
		d.Spec.Replicas = ptr.To(replicas)
		if _, err := c.clientset.AppsV1().Deployments(namespace).Update(ctx, d, metav1.UpdateOptions{}); err != nil {
			return scaled, fmt.Errorf("failed to scale deployment %s: %w", d.Name, err)
		}
		scaled = append(scaled, d.Name)
	}
	return scaled, nil
}

// ScaleStatefulSets sets the replica count of every statefulset matching the
// selector and returns the names of the scaled statefulsets.
func (c *Client) ScaleStatefulSets(ctx context.Context, namespace, labelSelector string, replicas int32) ([]string, error) {
	list, err := c.clientset.AppsV1().StatefulSets(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, fmt.Errorf("failed to list statefulsets: %w", err)
	}

	var scaled []string
	for i := range list.Items {
		s := &list.Items[i]
		s.Spec.Replicas = ptr.To(replicas)
		if _, err := c.clientset.AppsV1().StatefulSets(namespace).Update(ctx, s, metav1.UpdateOptions{}); err != nil {
			return scaled, fmt.Errorf("failed to scale statefulset %s: %w", s.Name, err)
		}
		scaled = append(scaled, s.Name)
	}
	return scaled, nil
}

// CurrentImage returns the image of the first container of a deployment.
func (c *Client) CurrentImage(ctx context.Context, namespace, name string) (string, error) {
	d, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrDeploymentNotFound, namespace, name)
		}
		return "", fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
	}

	containers := d.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return "", nil
	}
	return containers[0].Image, nil
}

// IsScaledDown reports whether every deployment matching the selector has
// zero desired replicas. No matching deployment counts as not scaled down.
func (c *Client) IsScaledDown(ctx context.Context, namespace, labelSelector string) (bool, error) {
	list, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return false, fmt.Errorf("failed to list deployments: %w", err)
	}
	if len(list.Items) == 0 {
		return false, nil
	}
	for _, d := range list.Items {
		if d.Spec.Replicas == nil || *d.Spec.Replicas != 0 {
			return false, nil
		}
	}
	return true, nil
}
