package types

import "testing"

func TestSocialScanString(t *testing.T) {
	var social Social
	if err := social.Scan(`("@trattoria",NULL,"@trattoria.milano",NULL,NULL,"https://trattoria.example")`); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if social.Twitter == nil || *social.Twitter != "@trattoria" {
		t.Fatalf("unexpected twitter %v", social.Twitter)
	}
	if social.Facebook != nil {
		t.Fatal("expected facebook to be nil")
	}
	if social.Instagram == nil || *social.Instagram != "@trattoria.milano" {
		t.Fatalf("unexpected instagram %v", social.Instagram)
	}
	if social.Website == nil || *social.Website != "https://trattoria.example" {
		t.Fatalf("unexpected website %v", social.Website)
	}
}

func TestSocialScanBytes(t *testing.T) {
	var social Social
	if err := social.Scan([]byte(`(NULL,NULL,NULL,"in/lena",NULL,NULL)`)); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if social.LinkedIn == nil || *social.LinkedIn != "in/lena" {
		t.Fatalf("unexpected linkedin %v", social.LinkedIn)
	}
}

func TestSocialScanUnsupportedType(t *testing.T) {
	var social Social
	if err := social.Scan(42); err == nil {
		t.Fatal("expected error for unsupported scan type")
	}
}

func TestSocialValueRoundTrip(t *testing.T) {
	handle := "@trattoria"
	value, err := Social{Twitter: &handle}.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	raw, ok := value.(string)
	if !ok {
		t.Fatalf("expected string value, got %T", value)
	}

	var social Social
	if err := social.Scan(raw); err != nil {
		t.Fatalf("scan of encoded value failed: %v", err)
	}
	if social.Twitter == nil || *social.Twitter != handle {
		t.Fatalf("round trip lost twitter: %v", social.Twitter)
	}
	if social.YouTube != nil {
		t.Fatal("expected youtube to stay nil")
	}
}
