package detect_test

import (
	"errors"
	"testing"

	"github.com/linalabs/go-lina/pkg/detect"
)

func TestFilter(t *testing.T) {
	objects := []detect.Object{
		{Label: "apple", Confidence: 0.92},
		{Label: "cup", Confidence: 0.49},
		{Label: "book", Confidence: 0.5},
		{Label: "chair", Confidence: 0.1},
	}

	kept := detect.Filter(objects, 0.5)

	if len(kept) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(kept))
	}
	if kept[0].Label != "apple" || kept[1].Label != "book" {
		t.Errorf("unexpected labels: %v", detect.Labels(kept))
	}
}

func TestFilterEmpty(t *testing.T) {
	if got := detect.Filter(nil, 0.5); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestObjectString(t *testing.T) {
	o := detect.Object{Label: "apple", Confidence: 0.876}
	if o.String() != "apple (88%)" {
		t.Errorf("unexpected label text: %s", o.String())
	}
}

func TestLabels(t *testing.T) {
	objects := []detect.Object{
		{Label: "apple"},
		{Label: "table"},
	}
	labels := detect.Labels(objects)
	if len(labels) != 2 || labels[0] != "apple" || labels[1] != "table" {
		t.Errorf("unexpected labels: %v", labels)
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns configured objects", func(t *testing.T) {
		mock := detect.NewMock(detect.Object{Label: "dog", Confidence: 0.8})

		objects, err := mock.Detect([]byte("frame"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(objects) != 1 || objects[0].Label != "dog" {
			t.Errorf("unexpected objects: %v", objects)
		}
		if mock.DetectCount() != 1 {
			t.Errorf("expected 1 call, got %d", mock.DetectCount())
		}
	})

	t.Run("DetectFunc overrides", func(t *testing.T) {
		wantErr := errors.New("model crashed")
		mock := &detect.Mock{
			DetectFunc: func(jpeg []byte) ([]detect.Object, error) {
				return nil, wantErr
			},
		}

		_, err := mock.Detect(nil)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected model error, got %v", err)
		}
	})
}
