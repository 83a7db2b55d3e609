package temdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/temdb/temdb-go/errors"
)

// newTestClient points a client at a mock TEMdb server
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

// echoHandler decodes the posted record, injects a server-assigned _id and
// echoes it back, the way TEMdb answers create calls
func echoHandler(t *testing.T, wantPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != wantPath {
			t.Errorf("expected path %s, got %s", wantPath, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("expected application/json content type")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}

		var record map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		record["_id"] = "65f1a2b3c4d5e6f7a8b9c0d1"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(record)
	}
}

func TestNewClient_URLValidation(t *testing.T) {
	cases := []struct {
		url string
		ok  bool
	}{
		{"http://temdb.example.com:8000", true},
		{"https://temdb.example.com", true},
		{"http://localhost:8000", true},
		{"ftp://temdb.example.com", false},
		{"temdb.example.com", false},
		{"http://", false},
	}
	for _, tc := range cases {
		client, err := NewClient(tc.url)
		if tc.ok && err != nil {
			t.Errorf("NewClient(%q): unexpected error %v", tc.url, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("NewClient(%q): expected error", tc.url)
		}
		if client != nil {
			client.Close()
		}
	}
}

func TestCreateSpecimen(t *testing.T) {
	server := httptest.NewServer(echoHandler(t, "/api/v1/specimens"))
	defer server.Close()
	client := newTestClient(t, server)

	created, err := client.CreateSpecimen(context.Background(), &Specimen{
		SpecimenID:  "SPEC1234",
		Description: "Test specimen 7",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.SpecimenID != "SPEC1234" {
		t.Errorf("expected echoed specimen_id, got %s", created.SpecimenID)
	}
	if created.ID == "" {
		t.Error("expected server-assigned _id on created record")
	}
}

func TestCreateSpecimen_RequiresID(t *testing.T) {
	client, err := NewClient("http://temdb.example.com")
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	_, err = client.CreateSpecimen(context.Background(), &Specimen{})
	if err == nil {
		t.Fatal("expected error for missing specimen_id")
	}
	if !errors.IsInvalidRequestError(err) {
		t.Errorf("expected invalid request error, got: %v", err)
	}
}

func TestCreateROI_EchoesServerIDs(t *testing.T) {
	server := httptest.NewServer(echoHandler(t, "/api/v1/rois"))
	defer server.Close()
	client := newTestClient(t, server)

	created, err := client.CreateROI(context.Background(), &ROI{
		ROIID:               1001,
		SectionNumber:       1,
		ApertureCentroid:    [2]float64{103.2, 97.5},
		ApertureWidthHeight: [2]float64{151.0, 149.3},
		SpecimenID:          "65f000000000000000000001",
		BlockID:             "65f000000000000000000002",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ROIID != 1001 {
		t.Errorf("expected echoed roi_id 1001, got %d", created.ROIID)
	}
	if created.ID == "" {
		t.Error("expected server-assigned _id")
	}
}

func TestAddImagingSessionROI(t *testing.T) {
	var gotBody map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/imaging-sessions/IMS_SPEC1234_001/rois" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	client := newTestClient(t, server)

	if err := client.AddImagingSessionROI(context.Background(), "IMS_SPEC1234_001", 1005); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["roi_id"] != 1005 {
		t.Errorf("expected roi_id 1005 in body, got %v", gotBody)
	}
}

func TestAddTile(t *testing.T) {
	server := httptest.NewServer(echoHandler(t, "/api/v1/acquisitions/ACQ001/tiles"))
	defer server.Close()
	client := newTestClient(t, server)

	tile := &Tile{
		TileID:         "TILEACQ00100001",
		AcquisitionID:  "ACQ001",
		StagePosition:  StagePosition{X: 100.0, Y: 200.0},
		RasterPosition: RasterPosition{Row: 0, Col: 0},
		FocusScore:     21.2,
		RasterIndex:    1,
	}
	created, err := client.AddTile(context.Background(), "ACQ001", tile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.TileID != "TILEACQ00100001" {
		t.Errorf("expected echoed tile_id, got %s", created.TileID)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"block BLK_X not found"}`, http.StatusNotFound)
		}))
		defer server.Close()
		client := newTestClient(t, server)

		_, err := client.CreateCuttingSession(context.Background(), &CuttingSession{
			CuttingSessionID: "CUTBLK_X1",
			BlockID:          "BLK_X",
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.IsNotFoundError(err) {
			t.Errorf("expected not-found error, got: %v", err)
		}
	})

	t.Run("400 maps to ErrInvalidRequest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"missing media_id"}`, http.StatusBadRequest)
		}))
		defer server.Close()
		client := newTestClient(t, server)

		_, err := client.CreateSection(context.Background(), &Section{SectionID: "SEC1"})
		if !errors.IsInvalidRequestError(err) {
			t.Errorf("expected invalid request error, got: %v", err)
		}
	})

	t.Run("409 maps to ErrConflict", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"duplicate specimen_id"}`, http.StatusConflict)
		}))
		defer server.Close()
		client := newTestClient(t, server)

		_, err := client.CreateSpecimen(context.Background(), &Specimen{SpecimenID: "SPEC1"})
		if !errors.IsConflictError(err) {
			t.Errorf("expected conflict error, got: %v", err)
		}
	})

	t.Run("500 is a generic client error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}))
		defer server.Close()
		client := newTestClient(t, server)

		_, err := client.CreateSpecimen(context.Background(), &Specimen{SpecimenID: "SPEC1"})
		if err == nil {
			t.Fatal("expected error for HTTP 500")
		}
		if errors.IsNotFoundError(err) {
			t.Error("500 must not map to not-found")
		}
		if !strings.Contains(err.Error(), "500") {
			t.Errorf("expected status in error, got: %v", err)
		}
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()
		client := newTestClient(t, server)

		_, err := client.CreateSpecimen(context.Background(), &Specimen{SpecimenID: "SPEC1"})
		if err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})
}

func TestWithRateLimit(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		echoHandler(t, r.URL.Path)(w, r)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithHTTPClient(server.Client()), WithRateLimit(100))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	for i := 0; i < 3; i++ {
		if _, err := client.CreateSpecimen(context.Background(), &Specimen{SpecimenID: "SPEC1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if requests != 3 {
		t.Errorf("expected 3 requests, got %d", requests)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()
	client := newTestClient(t, server)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.CreateSpecimen(ctx, &Specimen{SpecimenID: "SPEC1"})
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}
