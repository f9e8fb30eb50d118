package converter

// Static content for the REF and Keterangan sheets. The Core Tax importer
// expects this reference material in every file regardless of the
// transaction data, so it is kept as a versioned constant, never computed.

const staticSheetsRevision = "coretax-import-2025-01"

// refSheetRows is the lookup table on the REF sheet.
var refSheetRows = [][]string{
	{"Kode", "Keterangan"},
	{"Barang/Jasa", ""},
	{"A", "Barang"},
	{"B", "Jasa"},
	{"UM.0003", "Unit"},
	{"04", "DPP Nilai Lain"},
	{"Normal", "Faktur Pajak Normal"},
}

// keteranganSheetRows documents the import columns on the Keterangan sheet.
var keteranganSheetRows = [][]string{
	{"Kolom", "Mandatory", "Validasi DJP", "Keterangan"},
	{"Faktur", "", "", ""},
	{"Baris", "Ya", "Angka urut", "Nomor urut faktur"},
	{"Tanggal Faktur", "Ya", "YYYY-MM-DD", "Tanggal faktur pajak"},
	{"Jenis Faktur", "Ya", "Normal", "Jenis faktur pajak"},
	{"Kode Transaksi", "Ya", "Kode DJP", "Kode transaksi faktur"},
	{"DetailFaktur", "", "", ""},
	{"Kode Barang Jasa", "Tidak", "Maks 20 karakter", "Kode barang atau jasa"},
	{"Nama Barang.Jasa", "Ya", "Maks 255 karakter", "Nama barang atau jasa"},
	{"Nama Satuan Ukur", "Ya", "Kode satuan DJP", "Satuan ukur barang"},
	{"DPP", "Ya", "Desimal 2 digit", "Dasar pengenaan pajak"},
	{"PPN", "Ya", "Desimal 2 digit", "Pajak pertambahan nilai"},
}
