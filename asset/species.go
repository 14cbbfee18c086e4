package asset

import "sort"

// ESM2EmbeddingBlobs maps the species shipped with the ESM2 release to
// their embedding-table blob names.
var ESM2EmbeddingBlobs = map[string]string{
	"human":               "Homo_sapiens.GRCh38.gene_symbol_to_embedding_ESM2.json.zst",
	"mouse":               "Mus_musculus.GRCm39.gene_symbol_to_embedding_ESM2.json.zst",
	"frog":                "Xenopus_tropicalis.Xenopus_tropicalis_v9.1.gene_symbol_to_embedding_ESM2.json.zst",
	"zebrafish":           "Danio_rerio.GRCz11.gene_symbol_to_embedding_ESM2.json.zst",
	"mouse_lemur":         "Microcebus_murinus.Mmur_3.0.gene_symbol_to_embedding_ESM2.json.zst",
	"pig":                 "Sus_scrofa.Sscrofa11.1.gene_symbol_to_embedding_ESM2.json.zst",
	"macaca_fascicularis": "Macaca_fascicularis.Macaca_fascicularis_6.0.gene_symbol_to_embedding_ESM2.json.zst",
	"macaca_mulatta":      "Macaca_mulatta.Mmul_10.gene_symbol_to_embedding_ESM2.json.zst",
}

// KnownSpecies returns the species of the ESM2 release in sorted order.
func KnownSpecies() []string {
	species := make([]string, 0, len(ESM2EmbeddingBlobs))
	for s := range ESM2EmbeddingBlobs {
		species = append(species, s)
	}
	sort.Strings(species)
	return species
}

// ESM2Manifest builds a manifest skeleton for the ESM2 release, used by
// publishing tools; checksums and sizes are filled in at publish time.
func ESM2Manifest() *Manifest {
	m := &Manifest{
		Version: CurrentVersion,
		Model:   "esm2",
		Codec:   "go-json",
		Assets: []Info{
			{Name: VocabularyAsset, Blob: "token_dictionary.json"},
			{Name: GeneMappingAsset, Blob: "gene_symbol_to_ensembl_id.json"},
			{Name: ChromTableAsset, Blob: "species_chrom.json"},
		},
	}

	for _, s := range KnownSpecies() {
		m.Assets = append(m.Assets, Info{
			Name: EmbeddingAssetName(s),
			Blob: ESM2EmbeddingBlobs[s],
		})
	}

	return m
}
