package main

import (
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	admissionregistrationv1 "k8s.io/api/admissionregistration/v1"
)

var (
	testNames = []string{
		"stellarnode-operator-webhook.stellarnode-system.svc",
		"stellarnode-operator-webhook.stellarnode-system.svc.cluster.local",
	}
	testCert = x509.Certificate{
		DNSNames:  testNames,
		NotAfter:  time.Date(2023, 6, 21, 13, 14, 15, 0, time.UTC),
		NotBefore: time.Date(2022, 6, 21, 13, 14, 15, 0, time.UTC),
	}
)

func TestNeedsRenewIn(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name          string
		expectedNames []string
		now           time.Time
		expected      time.Duration
	}{
		{
			name:          "all-valid",
			expectedNames: testNames,
			now:           time.Date(2023, 5, 21, 13, 14, 15, 0, time.UTC),
			expected:      17 * 24 * time.Hour,
		},
		{
			name:          "names-invalid",
			expectedNames: append(testNames, "test2"),
			now:           time.Date(2023, 5, 21, 13, 14, 15, 0, time.UTC),
			expected:      0,
		},
		{
			name:          "before-valid-date",
			expectedNames: testNames,
			now:           time.Date(2022, 6, 21, 13, 14, 14, 0, time.UTC),
			expected:      0,
		},
		{
			name:          "after-valid-date",
			expectedNames: testNames,
			now:           time.Date(2023, 6, 21, 13, 14, 15, 1, time.UTC),
			expected:      -14*24*time.Hour - 1*time.Nanosecond,
		},
	}

	for i := range testcases {
		tcase := &testcases[i]
		t.Run(tcase.name, func(t *testing.T) {
			t.Parallel()

			actual := NeedsRenewIn(&testCert, tcase.expectedNames, tcase.now)
			assert.Equal(t, tcase.expected, actual)
		})
	}
}

func TestUpdateCABundle(t *testing.T) {
	t.Parallel()

	matching := func() *admissionregistrationv1.WebhookClientConfig {
		return &admissionregistrationv1.WebhookClientConfig{
			Service:  &admissionregistrationv1.ServiceReference{Name: "stellarnode-operator-webhook", Namespace: "stellarnode-system"},
			CABundle: []byte("old-ca"),
		}
	}

	t.Run("updates a matching service with a changed bundle", func(t *testing.T) {
		t.Parallel()
		whc := matching()
		changed := updateCABundle(whc, "stellarnode-operator-webhook", "stellarnode-system", []byte("new-ca"))
		assert.True(t, changed)
		assert.Equal(t, []byte("new-ca"), whc.CABundle)
	})

	t.Run("is a no-op when the bundle already matches", func(t *testing.T) {
		t.Parallel()
		whc := matching()
		whc.CABundle = []byte("new-ca")
		changed := updateCABundle(whc, "stellarnode-operator-webhook", "stellarnode-system", []byte("new-ca"))
		assert.False(t, changed)
	})

	t.Run("ignores a webhook routed to a different service", func(t *testing.T) {
		t.Parallel()
		whc := matching()
		changed := updateCABundle(whc, "some-other-webhook", "stellarnode-system", []byte("new-ca"))
		assert.False(t, changed)
		assert.Equal(t, []byte("old-ca"), whc.CABundle)
	})

	t.Run("ignores a URL-based client config with no Service", func(t *testing.T) {
		t.Parallel()
		whc := &admissionregistrationv1.WebhookClientConfig{}
		changed := updateCABundle(whc, "stellarnode-operator-webhook", "stellarnode-system", []byte("new-ca"))
		assert.False(t, changed)
	})
}
