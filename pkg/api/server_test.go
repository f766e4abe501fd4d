package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vmforge/vmforge/pkg/builder"
	"github.com/vmforge/vmforge/pkg/catalog"
	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/pricing"
	"github.com/vmforge/vmforge/pkg/providers"
	"github.com/vmforge/vmforge/pkg/telemetry"
	"github.com/vmforge/vmforge/pkg/templates"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := builder.New()
	reg := templates.NewRegistry(b)
	if err := templates.RegisterBuiltins(context.Background(), reg); err != nil {
		t.Fatal(err)
	}
	coordinator := engine.NewCoordinator(
		catalog.Builtin(), b, providers.NewDefaultRegistry(), reg, pricing.NewCalculator())

	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{Level: "error", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(coordinator, logger).Routes()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not json: %v\n%s", err, w.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["status"] != "ok" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestConstructFamilyEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/families", map[string]any{
		"vm_class": "standard",
		"provider": "aws",
		"region":   "us-east-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	if body["state"] != "done" {
		t.Errorf("state = %v", body["state"])
	}
	resources, ok := body["resources"].([]any)
	if !ok || len(resources) != 3 {
		t.Errorf("resources = %v", body["resources"])
	}
}

func TestConstructFamilyEndpointErrors(t *testing.T) {
	r := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		code int
		kind string
	}{
		{
			name: "missing required fields",
			body: map[string]any{"provider": "aws"},
			code: http.StatusBadRequest,
		},
		{
			name: "unknown provider",
			body: map[string]any{"vm_class": "standard", "provider": "oracle", "region": "us-east-1"},
			code: http.StatusBadRequest,
			kind: "unsupported_provider",
		},
		{
			name: "unknown vm class",
			body: map[string]any{"vm_class": "gpu", "provider": "aws", "region": "us-east-1"},
			code: http.StatusNotFound,
			kind: "not_found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/v1/families", tt.body)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.code, w.Body.String())
			}
			if tt.kind != "" && decode(t, w)["kind"] != tt.kind {
				t.Errorf("kind = %v, want %s", decode(t, w)["kind"], tt.kind)
			}
		})
	}
}

func TestConstructIndividualEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/vms", map[string]any{
		"provider": "aws",
		"vm_config": map[string]any{
			"provider":      "aws",
			"vcpus":         2,
			"memory_gb":     4,
			"instance_type": "t3.medium",
			"ami":           "ami-0c02fb55956c7d316",
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["status"] != "provisioned" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestListProvidersEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/v1/providers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	provs, ok := decode(t, w)["providers"].([]any)
	if !ok || len(provs) != 4 {
		t.Errorf("providers = %v", provs)
	}
}

func TestListCatalogEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/v1/catalog/azure", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/v1/catalog/oracle", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown provider status = %d", w.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/validate", map[string]any{
		"provider":  "aws",
		"vm_class":  "memory_optimized",
		"region":    "us-east-1",
		"size_tier": "large",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	if body["valid"] != true {
		t.Fatalf("body = %s", w.Body.String())
	}
	if body["estimated_cost"] == nil {
		t.Error("valid report must include a cost estimate")
	}

	// Invalid configurations still return 200 with valid=false.
	w = doJSON(t, r, http.MethodPost, "/v1/validate", map[string]any{
		"provider": "aws",
		"vm_class": "standard",
		"region":   "eastus",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["valid"] != false {
		t.Errorf("aws/eastus should be invalid: %s", w.Body.String())
	}
}

func TestTemplateEndpoints(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/v1/templates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if total, _ := decode(t, w)["total"].(float64); total != 3 {
		t.Errorf("total = %v, want 3 builtins", decode(t, w)["total"])
	}

	w = doJSON(t, r, http.MethodGet, "/v1/templates/web-server-standard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/v1/templates/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing template status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/templates/web-server-standard/instances", map[string]any{
		"provider": "gcp",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("instance status = %d: %s", w.Code, w.Body.String())
	}
	spec, _ := decode(t, w)["specification"].(map[string]any)
	if spec["provider"] != "gcp" {
		t.Errorf("instance provider = %v", spec["provider"])
	}

	w = doJSON(t, r, http.MethodDelete, "/v1/templates/web-server-standard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/v1/templates/web-server-standard", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}
}

func TestRegisterTemplateEndpoint(t *testing.T) {
	r := newTestServer(t)

	spec := map[string]any{
		"vm_class": "standard",
		"provider": "aws",
		"region":   "us-east-1",
		"vm_config": map[string]any{
			"provider":      "aws",
			"vcpus":         2,
			"memory_gb":     4,
			"instance_type": "t3.medium",
			"ami":           "ami-0c02fb55956c7d316",
		},
		"network_config": map[string]any{
			"region":         "us-east-1",
			"firewall_rules": []string{"SSH"},
			"public_ip":      true,
			"vpc_id":         "vpc-useast1",
			"subnet":         "subnet-useast1",
			"security_group": "sg-default",
		},
		"storage_config": map[string]any{
			"region":      "us-east-1",
			"size_gb":     50,
			"iops":        3000,
			"volume_type": "gp2",
		},
	}

	w := doJSON(t, r, http.MethodPut, "/v1/templates/custom", map[string]any{
		"specification": spec,
		"meta":          map[string]any{"category": "custom"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/v1/templates/custom", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
}

func TestEstimateEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/estimate", map[string]any{
		"specification": map[string]any{
			"vm_class": "standard",
			"provider": "aws",
			"region":   "us-east-1",
			"vm_config": map[string]any{
				"provider":      "aws",
				"vcpus":         2,
				"memory_gb":     4,
				"instance_type": "t3.medium",
				"ami":           "ami-0c02fb55956c7d316",
			},
			"network_config": map[string]any{
				"region":         "us-east-1",
				"firewall_rules": []string{"SSH"},
				"public_ip":      true,
				"vpc_id":         "vpc-useast1",
				"subnet":         "subnet-useast1",
				"security_group": "sg-default",
			},
			"storage_config": map[string]any{
				"region":      "us-east-1",
				"size_gb":     50,
				"iops":        3000,
				"volume_type": "gp2",
			},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	if body["total_hourly"] != 0.3 {
		t.Errorf("total = %v", body["total_hourly"])
	}
	if body["currency"] != "USD" {
		t.Errorf("currency = %v", body["currency"])
	}
}

func TestRunsEndpointWithoutStore(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/v1/runs", nil)
	if w.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501 without store", w.Code)
	}
}
