package catalog

import "testing"

func TestURL_KnownKey(t *testing.T) {
	u, ok := URL("UNECE")
	if !ok {
		t.Fatal("UNECE: not found in catalog")
	}
	if u == "" {
		t.Error("UNECE: empty URL")
	}
}

func TestURL_UnknownKey(t *testing.T) {
	if _, ok := URL("MARS_DMV"); ok {
		t.Error("unknown key: expected not found")
	}
}

func TestKeys_Deterministic(t *testing.T) {
	a := Keys()
	b := Keys()
	if len(a) == 0 {
		t.Fatal("catalog is empty")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("keys[%d]: %q != %q across calls", i, a[i], b[i])
		}
	}
}

func TestRegionKeys_ResolveToCatalog(t *testing.T) {
	for _, region := range Regions() {
		for _, key := range RegionKeys(region) {
			if _, ok := URL(key); !ok {
				t.Errorf("region %q references unknown catalog key %q", region, key)
			}
		}
	}
}

func TestCategoryKeys_ResolveToCatalog(t *testing.T) {
	for _, category := range Categories() {
		for _, key := range CategoryKeys(category) {
			if _, ok := URL(key); !ok {
				t.Errorf("category %q references unknown catalog key %q", category, key)
			}
		}
	}
}

func TestGlobalKeys_ResolveToCatalog(t *testing.T) {
	keys := GlobalKeys()
	if len(keys) == 0 {
		t.Fatal("no global fallback keys")
	}
	for _, key := range keys {
		if _, ok := URL(key); !ok {
			t.Errorf("global key %q not in catalog", key)
		}
	}
}

func TestGlobalKeys_CopyIsolated(t *testing.T) {
	keys := GlobalKeys()
	keys[0] = "CLOBBERED"
	if GlobalKeys()[0] == "CLOBBERED" {
		t.Error("GlobalKeys leaked internal slice")
	}
}
