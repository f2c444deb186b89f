package web

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Patient Timeline</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:Arial,Helvetica,sans-serif;background:#f4f6f9;color:#2c3e50;font-size:14px;line-height:1.5}
a{color:#2f80ed;text-decoration:none}
a:hover{text-decoration:underline}
header{background:#2c3e50;color:#fff;padding:12px 20px;display:flex;gap:16px;align-items:center;flex-wrap:wrap}
header h1{font-size:18px;margin-right:auto}
.btn{display:inline-block;background:#2f80ed;color:#fff;border:0;border-radius:4px;padding:6px 12px;cursor:pointer;font-size:13px}
.btn:hover{background:#1c6ad6;text-decoration:none}
.btn-small{padding:3px 8px;font-size:12px}
.btn-secondary{background:#7f8c8d}
.layout{display:flex;min-height:calc(100vh - 56px)}
main{flex:1;padding:20px;overflow-y:auto;max-height:calc(100vh - 56px)}
.patient-summary{background:#fff;border-radius:6px;padding:12px 16px;margin-bottom:16px;display:flex;gap:16px;flex-wrap:wrap}
.patient-summary .name{font-weight:700;font-size:16px}
.tabs{display:flex;gap:4px;border-bottom:2px solid #dfe4ea;margin-bottom:16px}
.tab-btn{position:relative;padding:8px 14px;color:#7f8c8d;border-radius:4px 4px 0 0}
.tab-btn.active{background:#fff;color:#2c3e50;font-weight:700}
.tab-btn .badge{position:absolute;top:4px;right:2px;width:8px;height:8px;border-radius:50%;background:#e74c3c}
.timeline{border-left:3px solid #2f80ed;margin-left:10px;padding-left:16px}
.timeline-item{margin-bottom:16px;position:relative}
.timeline-item::before{content:"";position:absolute;left:-24px;top:6px;width:12px;height:12px;border-radius:50%;background:#2f80ed}
.timeline-item.active .timeline-card{border-color:#2f80ed;box-shadow:0 0 0 2px #2f80ed33}
.timeline-date{font-size:12px;color:#7f8c8d}
.timeline-card{display:block;background:#fff;border:1px solid #dfe4ea;border-radius:6px;padding:10px 14px;color:inherit}
.timeline-card:hover{text-decoration:none;border-color:#2f80ed}
.timeline-card h3{font-size:15px}
.med-tag{display:inline-block;background:#eaf2fe;color:#2f80ed;border-radius:10px;padding:1px 8px;font-size:11px;margin:4px 4px 0 0}
.list-item{background:#fff;border:1px solid #dfe4ea;border-radius:6px;padding:10px 14px;margin-bottom:8px;display:flex;justify-content:space-between;align-items:center;gap:12px}
.item-name{font-weight:700}
.item-date{font-size:12px;color:#7f8c8d}
.item-status{display:flex;gap:10px;align-items:center}
.status-badge{border-radius:10px;padding:2px 8px;font-size:11px;font-weight:700}
.badge-regular{background:#d4f5e0;color:#1e8449}
.badge-temporary{background:#fdebd0;color:#b9770e}
.toggle-switch{position:relative;display:inline-block;width:36px;height:20px}
.toggle-switch input{opacity:0;width:0;height:0}
.toggle-slider{position:absolute;inset:0;background:#ccc;border-radius:20px;cursor:pointer}
.toggle-slider::before{content:"";position:absolute;width:16px;height:16px;left:2px;top:2px;background:#fff;border-radius:50%;transition:.2s}
.toggle-switch input:checked+.toggle-slider{background:#27ae60}
.toggle-switch input:checked+.toggle-slider::before{transform:translateX(16px)}
.change-item{background:#fff;border-left:4px solid #2f80ed;border-radius:4px;padding:8px 12px;margin-bottom:8px}
.change-item.new-medication{border-left-color:#27ae60}
.change-date{font-size:12px;color:#7f8c8d}
.changes-group{margin-bottom:20px}
.changes-group h3{font-size:14px;margin-bottom:8px}
.no-data{color:#7f8c8d;font-style:italic}
.error{color:#c0392b}
.loading{color:#7f8c8d}
.side-panel{width:360px;background:#fff;border-left:1px solid #dfe4ea;padding:16px;overflow-y:auto;max-height:calc(100vh - 56px)}
.side-panel-handle{display:none}
.detail-section{margin-bottom:16px}
.detail-section h4{font-size:13px;text-transform:uppercase;color:#7f8c8d;margin-bottom:6px}
.detail-list{list-style:none}
.detail-list li{padding:4px 0;border-bottom:1px solid #f0f2f5}
.item-with-actions{display:flex;justify-content:space-between;align-items:center;gap:8px}
.item-actions{display:flex;gap:6px;font-size:12px}
.inline{display:inline}
.modal{display:none;position:fixed;inset:0;background:#0007;z-index:10}
.modal.open{display:block}
.modal-content{background:#fff;max-width:420px;margin:15vh auto;border-radius:6px;padding:20px;position:relative}
.modal-content .close{position:absolute;right:12px;top:6px;font-size:20px;color:#7f8c8d}
.modal-actions{display:flex;gap:8px;margin-top:14px}
#back-to-top{display:none;position:fixed;right:16px;bottom:16px;border-radius:50%;width:40px;height:40px;padding:0}
#back-to-top.visible{display:block}
.upload-label input{display:none}
@media (max-width:768px){
.layout{display:block}
main{max-height:none}
.side-panel{position:fixed;left:0;right:0;bottom:0;width:auto;max-height:70vh;border-top:1px solid #dfe4ea;border-radius:12px 12px 0 0;transform:translateY(100%);transition:transform .3s;z-index:5}
.side-panel.active{transform:translateY(0)}
.side-panel-handle{display:block;width:40px;height:5px;background:#ccc;border-radius:3px;margin:0 auto 12px}
}
</style>
</head>
<body>
<header>
<h1>Patient Timeline</h1>
<form method="post" action="/upload" enctype="multipart/form-data" id="upload-form">
<label class="btn upload-label">Upload .med files
<input type="file" id="file-upload" name="file" accept=".med" multiple>
</label>
<noscript><button type="submit" class="btn btn-small">Send</button></noscript>
</form>
<form method="post" action="/fetch">
<input type="hidden" name="tab" value="{{.Tab}}">
<button type="submit" class="btn" id="fetch-api">Fetch from API</button>
</form>
<a class="btn btn-secondary" href="{{pageURL .Tab .Encounter ""}}">Refresh</a>
</header>
<div class="layout">
<main id="main">
{{template "content" .}}
</main>
{{template "panel" .}}
</div>
{{template "modals" .}}
<button class="btn" id="back-to-top" title="Back to top">&#8593;</button>
<script>
(function(){
var upload=document.getElementById('file-upload');
upload.addEventListener('change',function(){if(upload.files.length>0){upload.form.submit();}});
document.querySelectorAll('.auto-submit').forEach(function(cb){
cb.addEventListener('change',function(){cb.form.submit();});
});
var main=document.getElementById('main'),btt=document.getElementById('back-to-top');
var scroller=window.innerWidth<=768?window:main;
scroller.addEventListener('scroll',function(){
var y=scroller===window?window.scrollY:main.scrollTop;
btt.classList.toggle('visible',y>300);
},{passive:true});
btt.addEventListener('click',function(){
if(scroller===window){window.scrollTo({top:0,behavior:'smooth'});}else{main.scrollTo({top:0,behavior:'smooth'});}
});
var panel=document.getElementById('side-panel'),handle=document.querySelector('.side-panel-handle');
if(panel&&handle){
var startY=0;
handle.addEventListener('touchstart',function(e){startY=e.touches[0].clientY;},{passive:true});
handle.addEventListener('touchmove',function(e){
if(startY-e.touches[0].clientY< -50){panel.classList.remove('active');}
},{passive:true});
}
document.querySelectorAll('.modal').forEach(function(m){
m.addEventListener('click',function(e){if(e.target===m){m.classList.remove('open');}});
});
})();
</script>
</body>
</html>{{end}}
`

const tmplIndex = `
{{define "content"}}
<section class="patient-summary" id="patient-summary">
{{with .Patient}}
<span class="name" id="patient-name">{{.DisplayName}}</span>
<span id="patient-age">{{.AgeLabel}}</span>
<span id="patient-sex">{{.SexLabel}}</span>
{{else}}
<span class="name" id="patient-name">Unknown Patient</span>
{{end}}
</section>
<nav class="tabs">
{{range .Tabs}}<a class="tab-btn{{if .Active}} active{{end}}" data-tab="{{.ID}}" href="{{pageURL .ID "" ""}}">{{.Label}}{{if .Badge}}<span class="badge"></span>{{end}}</a>
{{end}}
</nav>
{{if eq .Tab "medications"}}{{template "medications" .}}
{{else if eq .Tab "diagnoses"}}{{template "diagnoses" .}}
{{else if eq .Tab "changes"}}{{template "changes" .}}
{{else}}{{template "timeline" .}}{{end}}
{{end}}

{{define "timeline"}}
<section class="tab-content active" id="timeline-tab">
<div class="timeline" id="timeline">
{{if .TimelineError}}<p class="error">{{.TimelineError}}</p>
{{else if .TimelineLoading}}<p class="loading">Loading timeline...</p>
{{else if not .Cards}}<p class="no-data">No medical records found. Upload .med files or fetch from API.</p>
{{else}}{{range .Cards}}
<div class="timeline-item{{if .Active}} active{{end}}" data-index="{{.Index}}">
<div class="timeline-date">{{.Date}}</div>
<a class="timeline-card" href="{{pageURL "timeline" .Filename ""}}">
<h3>{{.Diagnosis}}</h3>
<p>Medical conducts: {{.Prescriptions}} prescriptions, {{.Exams}} exams, {{.Referrals}} referrals</p>
<div class="med-conducts">{{range .Tags}}<span class="med-tag">{{.}}</span>{{end}}</div>
</a>
</div>
{{end}}{{end}}
</div>
</section>
{{end}}

{{define "medications"}}
<section class="tab-content active" id="medications-tab">
<div id="medications-list">
{{if .MedicationsError}}<p class="error">{{.MedicationsError}}</p>
{{else if .MedicationsLoading}}<p class="loading">Loading medications...</p>
{{else if not .Medications}}<p class="no-data">No medications in use.</p>
{{else}}{{range .Medications}}
<div class="list-item medication-item">
<div class="medication-info">
<div class="item-name medication-name">{{.Name}}</div>
<div class="item-date medication-date">Added: {{.DateAdded}}</div>
</div>
<form class="item-status medication-status" method="post" action="/medications/toggle">
<span class="status-badge medication-badge {{.BadgeClass}}">{{.Badge}}</span>
<input type="hidden" name="name" value="{{.Name}}">
<input type="hidden" name="regular_use" value="{{not .RegularUse}}">
<label class="toggle-switch">
<input type="checkbox" class="auto-submit toggle-regular-use"{{if .RegularUse}} checked{{end}}>
<span class="toggle-slider"></span>
</label>
<noscript><button type="submit" class="btn btn-small">Toggle</button></noscript>
</form>
</div>
{{end}}{{end}}
</div>
</section>
{{end}}

{{define "diagnoses"}}
<section class="tab-content active" id="diagnoses-tab">
<div id="diagnoses-list">
{{if .DiagnosesError}}<p class="error">{{.DiagnosesError}}</p>
{{else if .DiagnosesLoading}}<p class="loading">Loading diagnoses...</p>
{{else if not .Diagnoses}}<p class="no-data">No diagnoses recorded.</p>
{{else}}{{range .Diagnoses}}
<div class="list-item diagnosis-item">
<div class="diagnosis-info">
<div class="item-name diagnosis-name">{{.Name}}</div>
<div class="item-date diagnosis-date">Diagnosed: {{.DateDiagnosed}}</div>
</div>
<form class="item-status diagnosis-status" method="post" action="/diagnoses/toggle">
<span class="status-badge diagnosis-badge {{.BadgeClass}}">{{.Badge}}</span>
<input type="hidden" name="name" value="{{.Name}}">
<input type="hidden" name="active" value="{{not .Active}}">
<label class="toggle-switch">
<input type="checkbox" class="auto-submit toggle-active-diagnosis"{{if .Active}} checked{{end}}>
<span class="toggle-slider"></span>
</label>
<noscript><button type="submit" class="btn btn-small">Toggle</button></noscript>
</form>
</div>
{{end}}{{end}}
</div>
</section>
{{end}}

{{define "changes"}}
<section class="tab-content active" id="changes-tab">
<div class="changes-group">
<h3>New Diagnoses</h3>
<div id="diagnosis-changes">
{{if .DiagnosisChangesError}}<p class="error">{{.DiagnosisChangesError}}</p>
{{else if .ChangesLoading}}<p class="loading">Loading changes...</p>
{{else if not .DiagnosisChanges}}<p class="no-data">No new diagnoses.</p>
{{else}}{{range .DiagnosisLinks}}
<div class="change-item new-diagnosis">
<div class="change-date">{{.Date}}</div>
<div class="change-content">New diagnosis: <strong>{{.Subject}}</strong></div>
<div class="change-link"><a href="{{pageURL "changes" .Filename ""}}">View encounter details</a></div>
</div>
{{end}}{{end}}
</div>
</div>
<div class="changes-group">
<h3>New Medications</h3>
<div id="medication-changes">
{{if .MedicationChangesError}}<p class="error">{{.MedicationChangesError}}</p>
{{else if .ChangesLoading}}<p class="loading">Loading changes...</p>
{{else if not .MedicationChanges}}<p class="no-data">No new medications.</p>
{{else}}{{range .MedicationLinks}}
<div class="change-item new-medication">
<div class="change-date">{{.Date}}</div>
<div class="change-content">New medication: <strong>{{.Subject}}</strong></div>
<div class="change-actions"><a class="btn btn-small add-to-regular" href="{{pageURL "changes" "" .Subject}}">Add to regular use</a></div>
<div class="change-link"><a href="{{pageURL "changes" .Filename ""}}">View encounter details</a></div>
</div>
{{end}}{{end}}
</div>
</div>
</section>
{{end}}

{{define "panel"}}
<aside class="side-panel{{if .Detail}} active{{end}}" id="side-panel">
<div class="side-panel-handle"></div>
<div id="encounter-details">
{{with .Detail}}
<div class="detail-section">
<h4>General Information</h4>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Diagnosis:</strong> {{.Diagnosis}}</p>
</div>
{{$filename := .Filename}}
{{range .Sections}}{{$kind := .Kind}}
<div class="detail-section">
<h4>{{.Title}}</h4>
<ul class="detail-list">
{{range $i, $item := .Items}}
<li><div class="item-with-actions">
<span>{{$item}}</span>
<div class="item-actions">
<a class="action-btn print-btn" href="{{docURL $filename $kind $i "print"}}" target="_blank" rel="noopener">Print</a>
<a class="action-btn download-btn" href="{{docURL $filename $kind $i "download"}}">Download</a>
{{if eq $kind "prescription"}}<a class="btn-small add-med-btn" href="{{pageURL $.Tab $filename $item}}" title="Add to medications">+</a>{{end}}
</div>
</div></li>
{{end}}
</ul>
</div>
{{end}}
<div class="detail-actions">
<a href="{{downloadURL .Filename}}" class="btn" download>Download .med file</a>
</div>
{{else}}
<p class="no-data">Select an encounter to view details.</p>
{{end}}
</div>
</aside>
{{end}}

{{define "modals"}}
{{if .Message}}
<div class="modal open" id="upload-modal">
<div class="modal-content">
<a class="close" href="{{pageURL .Tab .Encounter ""}}">&times;</a>
<p id="upload-message">{{.Message}}</p>
</div>
</div>
{{end}}
{{if .Confirm}}
<div class="modal open" id="medication-modal">
<div class="modal-content">
<a class="close" href="{{pageURL .Tab .Encounter ""}}">&times;</a>
<p>Add <strong>{{.Confirm}}</strong> to regular use?</p>
<div class="modal-actions">
<form method="post" action="/medications/add" class="inline">
<input type="hidden" name="name" value="{{.Confirm}}">
<input type="hidden" name="regular_use" value="true">
<input type="hidden" name="tab" value="{{.Tab}}">
<button type="submit" class="btn" id="med-regular-yes">Yes</button>
</form>
<form method="post" action="/medications/add" class="inline">
<input type="hidden" name="name" value="{{.Confirm}}">
<input type="hidden" name="regular_use" value="false">
<input type="hidden" name="tab" value="{{.Tab}}">
<button type="submit" class="btn btn-secondary" id="med-regular-no">No</button>
</form>
</div>
</div>
</div>
{{end}}
{{end}}
`
