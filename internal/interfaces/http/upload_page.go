package http

// uploadPage is the single-page upload UI served at "/". It posts the chosen
// spreadsheet to /convert and offers the converted workbook as a download.
const uploadPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>ERP to Core Tax Converter</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, sans-serif; background: #f4f6fb; color: #333;
           display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; }
    .container { background: #fff; padding: 2rem; border-radius: 12px; max-width: 560px; width: 90%;
                 box-shadow: 0 10px 30px rgba(0,0,0,0.08); text-align: center; }
    h1 { color: #2c3e50; font-size: 1.6rem; }
    .upload-area { border: 3px dashed #bdc3c7; border-radius: 10px; padding: 2.5rem 1rem; margin: 1.5rem 0;
                   cursor: pointer; transition: border-color .2s; }
    .upload-area:hover, .upload-area.dragover { border-color: #3498db; background: #f8f9fa; }
    .btn { background: #3498db; color: #fff; padding: 10px 28px; border: none; border-radius: 20px;
           cursor: pointer; font-size: 1rem; }
    .btn:disabled { background: #bdc3c7; cursor: not-allowed; }
    .msg { padding: .8rem; border-radius: 8px; margin: 1rem 0; display: none; }
    .error { background: #fdecea; color: #c0392b; }
    .success { background: #eafaf1; color: #27ae60; }
  </style>
</head>
<body>
  <div class="container">
    <h1>ERP to Core Tax Converter</h1>
    <p>Convert ERP sales exports to the DJP Core Tax import format</p>
    <div class="upload-area" id="uploadArea">
      <div>Click to upload or drag &amp; drop</div>
      <div style="color:#7f8c8d;font-size:.9rem">Sales spreadsheet (.xlsx, .xls)</div>
      <input type="file" id="fileInput" style="display:none" accept=".xlsx,.xls">
    </div>
    <div class="msg error" id="error"></div>
    <div class="msg success" id="success"></div>
    <button class="btn" id="convertBtn" style="display:none">Convert</button>
  </div>
  <script>
    let uploadedFile = null;
    const area = document.getElementById('uploadArea');
    const input = document.getElementById('fileInput');
    const btn = document.getElementById('convertBtn');
    const errBox = document.getElementById('error');
    const okBox = document.getElementById('success');

    area.addEventListener('click', () => input.click());
    area.addEventListener('dragover', e => { e.preventDefault(); area.classList.add('dragover'); });
    area.addEventListener('dragleave', () => area.classList.remove('dragover'));
    area.addEventListener('drop', e => {
      e.preventDefault(); area.classList.remove('dragover');
      if (e.dataTransfer.files.length) pick(e.dataTransfer.files[0]);
    });
    input.addEventListener('change', e => { if (e.target.files.length) pick(e.target.files[0]); });

    function pick(f) {
      if (!/\.(xlsx|xls)$/i.test(f.name)) { show(errBox, 'Please select an Excel file (.xlsx or .xls)'); return; }
      uploadedFile = f;
      btn.style.display = 'inline-block';
      hide();
    }

    btn.addEventListener('click', async () => {
      if (!uploadedFile) return;
      const form = new FormData();
      form.append('file', uploadedFile);
      btn.disabled = true;
      try {
        const resp = await fetch('/convert', { method: 'POST', body: form });
        if (!resp.ok) {
          const body = await resp.json();
          throw new Error(body.detail || 'conversion failed');
        }
        const skipped = resp.headers.get('X-Skipped-Rows') || '0';
        const blob = await resp.blob();
        const url = URL.createObjectURL(blob);
        const a = document.createElement('a');
        a.href = url;
        a.download = 'CoreTax_Import.xlsx';
        a.click();
        URL.revokeObjectURL(url);
        show(okBox, 'Converted successfully' + (skipped !== '0' ? ' (' + skipped + ' row(s) skipped)' : ''));
      } catch (e) {
        show(errBox, 'Error: ' + e.message);
      } finally {
        btn.disabled = false;
      }
    });

    function show(box, text) { hide(); box.textContent = text; box.style.display = 'block'; }
    function hide() { errBox.style.display = 'none'; okBox.style.display = 'none'; }
  </script>
</body>
</html>
`
