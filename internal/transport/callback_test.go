package transport_test

import (
	"testing"

	"reelgate/internal/transport"
)

func TestParseCallbackShowVariants(t *testing.T) {
	data := transport.ShowVariantsData(42)
	if data != "showvar_42" {
		t.Fatalf("unexpected data: %q", data)
	}

	intent, err := transport.ParseCallback(data)
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	show, ok := intent.(transport.ShowVariants)
	if !ok {
		t.Fatalf("expected ShowVariants, got %T", intent)
	}
	if show.TitleID != 42 {
		t.Fatalf("unexpected title id: %d", show.TitleID)
	}
}

func TestParseCallbackVerify(t *testing.T) {
	intent, err := transport.ParseCallback(transport.VerifyData(1234))
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	verify, ok := intent.(transport.RequestVerification)
	if !ok {
		t.Fatalf("expected RequestVerification, got %T", intent)
	}
	if verify.VariantID != 1234 {
		t.Fatalf("unexpected variant id: %d", verify.VariantID)
	}
}

func TestParseCallbackPageKeepsUnderscoredQueries(t *testing.T) {
	intent, err := transport.ParseCallback(transport.PageData(3, "spider_man far_from home"))
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	page, ok := intent.(transport.PageNav)
	if !ok {
		t.Fatalf("expected PageNav, got %T", intent)
	}
	if page.Page != 3 || page.Query != "spider_man far_from home" {
		t.Fatalf("unexpected page intent: %+v", page)
	}
}

func TestParseCallbackRejectsMalformedData(t *testing.T) {
	cases := []string{
		"",
		"showvar",
		"showvar_",
		"showvar_abc",
		"showvar_0",
		"verify_-3",
		"page_2",
		"page_x_query",
		"page_-1_query",
		"selfdestruct_1",
	}
	for _, data := range cases {
		if _, err := transport.ParseCallback(data); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}
