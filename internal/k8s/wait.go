package k8s

import (
	"context"
	"errors"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrWaitTimeout is returned when a wait gives up before its condition holds.
var ErrWaitTimeout = errors.New("timed out waiting for condition")

// WaitForPodsGone polls until no pod matches the selector.
func (c *Client) WaitForPodsGone(ctx context.Context, namespace, labelSelector string, interval, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		pods, err := c.GetPods(ctx, namespace, labelSelector)
		if err != nil {
			return false, nil
		}
		return len(pods) == 0, nil
	})
	return translateWaitError(err)
}

func translateWaitError(err error) error {
	if err == nil {
		return nil
	}
	if wait.Interrupted(err) {
		return fmt.Errorf("%w: %w", ErrWaitTimeout, err)
	}
	return err
}

// IsPodReady checks if a pod is ready.
func IsPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}

	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}

	return false
}

// WaitingReason returns the reason of the first waiting container of a pod.
func WaitingReason(pod *corev1.Pod) string {
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting != nil && cs.State.Waiting.Reason != "" {
			return cs.State.Waiting.Reason
		}
	}
	return ""
}
