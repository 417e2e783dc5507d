package webview

import "html/template"

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>GeoView</title></head>
<body>
  <h1>GeoView</h1>
  {{if .Panels}}
  <ul id="geoview-panels">
    {{range .Panels}}<li><a href="/view/{{.ID}}">{{.Title}}</a></li>
    {{end}}
  </ul>
  {{else}}
  <p>No open documents.</p>
  {{end}}
</body>
</html>
`

const viewTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Panel.Title}} - GeoView</title></head>
<body>
  <div id="geoview-toolbar">
    <button data-command="refresh">Refresh</button>
    <select id="geoview-cmap">
      {{range .Colormaps}}<option value="{{.}}">{{.}}</option>
      {{end}}
    </select>
    <button data-command="transpose">Transpose</button>
    <input id="geoview-dims" placeholder="rows,columns[,depth]" size="14">
    <input id="geoview-vscale" placeholder="vscale" size="6">
    <button data-command="close">Close</button>
    <span id="geoview-status"></span>
  </div>
  <img id="geoview-image" src="{{.ImageURL}}" style="width: auto; height: 100%;" />
  <script>
    const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws/{{.Panel.ID}}');
    const send = (msg) => ws.send(JSON.stringify(msg));
    ws.onmessage = (event) => {
      const message = JSON.parse(event.data);
      if (message.command === 'updateImage') {
        document.getElementById('geoview-image').src = message.imageUri;
      } else if (message.command === 'dispose') {
        document.getElementById('geoview-status').textContent = 'closed';
      }
    };
    document.querySelectorAll('button[data-command]').forEach((b) => {
      b.addEventListener('click', () => send({command: b.dataset.command}));
    });
    document.getElementById('geoview-cmap').addEventListener('change', (e) => {
      send({command: 'changeCmap', cmap: e.target.value});
    });
    document.getElementById('geoview-dims').addEventListener('change', (e) => {
      send({command: 'setDims', dims: e.target.value});
    });
    document.getElementById('geoview-vscale').addEventListener('change', (e) => {
      send({command: 'setVScale', vscale: e.target.value});
    });
  </script>
</body>
</html>
`

func loadTemplates() *template.Template {
	t := template.Must(template.New("index.html").Parse(indexTemplate))
	template.Must(t.New("view.html").Parse(viewTemplate))
	return t
}
