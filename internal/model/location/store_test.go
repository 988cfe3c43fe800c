package location

import "testing"

func TestFindByZipExactMatch(t *testing.T) {
	dir := NewMemoryDirectory(Seed())

	got, ok := dir.FindByZip("21231")
	if !ok {
		t.Fatal("expected 21231 to be found")
	}
	if got.Names[0] != "Fells Point" {
		t.Fatalf("unexpected neighborhood: %+v", got)
	}

	if _, ok := dir.FindByZip("2123"); ok {
		t.Fatal("expected prefix match to miss")
	}
}

func TestListReturnsCopy(t *testing.T) {
	dir := NewMemoryDirectory(Seed())
	items := dir.List()
	items[0].ZipCode = "00000"

	if _, ok := dir.FindByZip("21201"); !ok {
		t.Fatal("mutating List result must not affect the directory")
	}
}

func TestLookupPlaceCaseInsensitive(t *testing.T) {
	coords, ok := LookupPlace("  Baltimore ")
	if !ok {
		t.Fatal("expected baltimore to resolve")
	}
	if coords.Latitude != 39.2904 || coords.Longitude != -76.6122 {
		t.Fatalf("unexpected coordinates: %+v", coords)
	}
	if _, ok := LookupPlace("atlantis"); ok {
		t.Fatal("expected unknown key to miss")
	}
}
