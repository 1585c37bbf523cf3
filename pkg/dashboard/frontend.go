package dashboard

import "net/http"

func (d *Dashboard) serveFrontend(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(frontendHTML))
}

const frontendHTML = `<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Wallet Dash</title>
<link href="https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@300;400;500;600;700&family=Space+Grotesk:wght@400;500;600;700&display=swap" rel="stylesheet">
<style>
:root{--bg:#08090d;--sf:#0f1118;--sf2:#161923;--sf3:#1e2230;--bd:#252a3a;--bd2:#333a50;--tx:#c8cdd8;--tx2:#8891a5;--tx3:#5a6278;--ac:#3b82f6;--gn:#10b981;--rd:#ef4444;--or:#f59e0b;--pr:#a855f7;--cy:#06b6d4;--pk:#ec4899;--go:#eab308}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:'JetBrains Mono',monospace;background:var(--bg);color:var(--tx);min-height:100vh}
.app{max-width:1440px;margin:0 auto;padding:20px 24px}
.hdr{display:flex;justify-content:space-between;align-items:center;padding:16px 0;border-bottom:1px solid var(--bd);margin-bottom:24px}
.hdr h1{font-family:'Space Grotesk',sans-serif;font-size:22px;font-weight:700;background:linear-gradient(135deg,var(--ac),var(--pr));-webkit-background-clip:text;-webkit-text-fill-color:transparent}
.live{font-size:9px;padding:3px 10px;border-radius:20px;background:rgba(16,185,129,.1);color:var(--gn);border:1px solid rgba(16,185,129,.2);letter-spacing:1.5px;font-weight:600;margin-left:12px;-webkit-text-fill-color:var(--gn)}
.live::before{content:'';display:inline-block;width:6px;height:6px;border-radius:50%;background:var(--gn);margin-right:6px;animation:blink 2s infinite}
@keyframes blink{0%,100%{opacity:1}50%{opacity:.3}}
.nav{display:flex;gap:4px;margin-bottom:24px;background:var(--sf);border-radius:10px;padding:4px;border:1px solid var(--bd)}
.nav button{font-family:'JetBrains Mono',monospace;font-size:11px;padding:9px 18px;border:none;background:0;color:var(--tx2);cursor:pointer;border-radius:8px;transition:.2s}
.nav button:hover{color:var(--tx);background:var(--sf2)}
.nav button.on{background:var(--ac);color:#fff;box-shadow:0 2px 12px rgba(59,130,246,.25)}
.sts{display:grid;grid-template-columns:repeat(auto-fit,minmax(130px,1fr));gap:12px;margin-bottom:24px}
.st{background:var(--sf);border:1px solid var(--bd);border-radius:10px;padding:15px 16px}
.st .v{font-size:24px;font-weight:700}.st .v.b{color:var(--ac)}.st .v.g{color:var(--gn)}.st .v.r{color:var(--rd)}.st .v.o{color:var(--or)}.st .v.p{color:var(--pr)}.st .v.c{color:var(--cy)}
.st .l{font-size:9px;color:var(--tx3);text-transform:uppercase;letter-spacing:.8px;margin-top:5px}
.pn{background:var(--sf);border:1px solid var(--bd);border-radius:12px;margin-bottom:18px;overflow:hidden}
.pn-h{display:flex;justify-content:space-between;align-items:center;padding:13px 18px;border-bottom:1px solid var(--bd);background:var(--sf2)}
.pn-h h2{font-family:'Space Grotesk',sans-serif;font-size:13px;font-weight:600}
.pn-b{padding:0}
table{width:100%;border-collapse:collapse}
th{text-align:left;font-size:9px;color:var(--tx3);text-transform:uppercase;letter-spacing:.8px;padding:10px 14px;border-bottom:1px solid var(--bd)}
td{padding:10px 14px;border-bottom:1px solid rgba(37,42,58,.4);font-size:12px}
tr:hover td{background:rgba(59,130,246,.02)}
.addr{color:var(--go);font-size:11px;cursor:pointer;letter-spacing:.3px}.addr:hover{text-decoration:underline}
.bg{display:inline-block;padding:2px 8px;border-radius:5px;font-size:9px;font-weight:600;letter-spacing:.4px}
.bg-sol{background:rgba(153,69,255,.12);color:#b07eff;border:1px solid rgba(153,69,255,.2)}
.bg-eth{background:rgba(98,126,234,.12);color:#8da0f0;border:1px solid rgba(98,126,234,.2)}
.bg-base{background:rgba(0,82,255,.12);color:#4d8fff;border:1px solid rgba(0,82,255,.2)}
.bg-bsc{background:rgba(243,186,47,.12);color:#f3ba2f;border:1px solid rgba(243,186,47,.2)}
.mo{position:fixed;top:0;left:0;right:0;bottom:0;background:rgba(0,0,0,.7);display:flex;align-items:center;justify-content:center;z-index:100;backdrop-filter:blur(6px)}
.md{background:var(--sf);border:1px solid var(--bd2);border-radius:14px;padding:24px;width:520px;max-width:92vw;box-shadow:0 20px 60px rgba(0,0,0,.5)}
.md h2{font-family:'Space Grotesk',sans-serif;font-size:18px;margin-bottom:16px}
.fg{margin-bottom:14px}
.fg label{display:block;font-size:10px;color:var(--tx2);text-transform:uppercase;letter-spacing:.8px;margin-bottom:6px}
.fg input,.fg select{width:100%;padding:10px 12px;background:var(--sf2);border:1px solid var(--bd);border-radius:8px;color:var(--tx);font-family:'JetBrains Mono',monospace;font-size:12px;outline:0;transition:.2s}
.fg input:focus{border-color:var(--ac);box-shadow:0 0 0 3px rgba(59,130,246,.1)}
.fg input::placeholder{color:var(--tx3)}
.btn{font-family:'JetBrains Mono',monospace;font-size:11px;padding:10px 18px;border:none;border-radius:8px;cursor:pointer;font-weight:600;transition:.2s}
.btn-p{background:var(--ac);color:#fff}.btn-p:hover{background:#2563eb}
.btn-s{background:var(--sf2);color:var(--tx2);border:1px solid var(--bd)}.btn-s:hover{color:var(--tx)}
.btn-a{background:linear-gradient(135deg,var(--gn),#059669);color:#fff;padding:8px 16px;border-radius:8px}.btn-a:hover{box-shadow:0 4px 16px rgba(16,185,129,.3)}
.btn-r{display:flex;gap:10px;margin-top:18px;justify-content:flex-end}
.emp{text-align:center;padding:40px;color:var(--tx3);font-size:12px}.emp .ic{font-size:28px;margin-bottom:10px}
.scy{max-height:500px;overflow-y:auto}.scy::-webkit-scrollbar{width:5px}.scy::-webkit-scrollbar-thumb{background:var(--bd);border-radius:3px}
.gr2{display:grid;grid-template-columns:1fr 1fr;gap:18px}
@media(max-width:900px){.gr2{grid-template-columns:1fr}.sts{grid-template-columns:repeat(2,1fr)}}
.toast{position:fixed;bottom:24px;right:24px;background:var(--sf);border:1px solid var(--gn);border-radius:10px;padding:14px 20px;color:var(--gn);font-size:12px;z-index:200;box-shadow:0 8px 32px rgba(0,0,0,.4);animation:slideIn .3s}
@keyframes slideIn{from{transform:translateX(100px);opacity:0}to{transform:translateX(0);opacity:1}}
.chart{position:relative;user-select:none;touch-action:none;cursor:grab;padding:10px}
.chart.drag{cursor:grabbing}
.chart img{display:block;width:100%;pointer-events:none}
.rg{display:flex;gap:4px}
.rg button{font-family:'JetBrains Mono',monospace;font-size:10px;padding:5px 10px;border:1px solid var(--bd);background:var(--sf2);color:var(--tx2);border-radius:6px;cursor:pointer}
.rg button.on{background:var(--ac);color:#fff;border-color:var(--ac)}
.hint{font-size:10px;color:var(--tx3);padding:0 18px 12px}
</style></head><body>
<div id="root"></div>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react/18.2.0/umd/react.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react-dom/18.2.0/umd/react-dom.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/babel-standalone/7.23.9/babel.min.js"></script>
<script type="text/babel">
const{useState,useEffect,useCallback,useRef}=React;
const useFetch=(u,ms=15000)=>{const[d,sD]=useState(null);const ld=useCallback(()=>{fetch(u).then(r=>r.json()).then(sD).catch(()=>{})},[u]);useEffect(()=>{ld();const i=setInterval(ld,ms);return()=>clearInterval(i)},[ld,ms]);return{d,r:ld}};
const post=(u,b)=>fetch(u,{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify(b||{})}).then(r=>r.json());
const ab=a=>a?(a.slice(0,6)+'...'+a.slice(-4)):'-';
const CB=c=>{const m={solana:'bg-sol',ethereum:'bg-eth',base:'bg-base',bsc:'bg-bsc'};return<span className={'bg '+(m[c]||'')}>{c||'?'}</span>};
const RANGES=['1D','1W','1M','3M','1Y','ALL'];

function Chart({subject,visible}){
  const[sess,sSess]=useState(null),[rng,sRng]=useState('1M'),[tick,sTick]=useState(0),[drag,sDrag]=useState(false);
  const box=useRef(null),queue=useRef(Promise.resolve());
  useEffect(()=>{post('/api/viewport/session',{subject,range:'1M'}).then(v=>{sSess(v);sRng(v.range)})},[subject]);
  const bounds=()=>{const r=box.current.getBoundingClientRect();return{left:r.left,width:r.width}};
  const send=ev=>{if(!sess)return;const id=sess.id;queue.current=queue.current.then(()=>post('/api/viewport/'+id+'/event',ev)).then(v=>{if(v.error)return;sSess(v);if(v.changed)sTick(t=>t+1)}).catch(()=>{})};
  useEffect(()=>{const el=box.current;if(!el)return;const h=e=>{e.preventDefault();send({type:'wheel',delta_y:e.deltaY,x:e.clientX,bounds:bounds()})};el.addEventListener('wheel',h,{passive:false});return()=>el.removeEventListener('wheel',h)});
  useEffect(()=>{sTick(t=>t+1)},[visible]);
  const pick=r=>{sRng(r);send({type:'range',range:r})};
  return<div className="pn">
    <div className="pn-h"><h2>📈 {subject==='portfolio'?'Portfolio':ab(subject)}</h2>
      <div className="rg">{RANGES.map(r=><button key={r} className={rng===r?'on':''} onClick={()=>pick(r)}>{r}</button>)}</div></div>
    <div ref={box} className={'chart'+(drag?' drag':'')}
      onPointerDown={e=>{sDrag(true);send({type:'down',x:e.clientX})}}
      onPointerMove={e=>{if(drag)send({type:'move',x:e.clientX,bounds:bounds()})}}
      onPointerUp={()=>{sDrag(false);send({type:'up'})}}
      onPointerLeave={()=>{if(drag){sDrag(false);send({type:'leave'})}}}>
      {sess?<img src={'/api/chart.png?session='+sess.id+'&t='+tick} alt=""/>:<div className="emp">Loading...</div>}
    </div>
    <div className="hint">{sess&&sess.enabled?('zoom '+sess.zoom.toFixed(2)+'x · '+sess.visible.length+' of '+sess.total+' points · scroll to zoom, drag to pan'):(sess?sess.total+' points':'')}</div>
  </div>
}

function App(){
  const[showAdd,sShowAdd]=useState(false),[toast,sToast]=useState(''),[subject,sSubject]=useState('portfolio');
  const{d:settings,r:rS}=useFetch('/api/settings');
  const{d:pf,r:rP}=useFetch('/api/portfolio');
  const{d:wallets,r:rW}=useFetch('/api/wallets');
  const{d:st,r:rSt}=useFetch('/api/streak',60000);
  const{d:lb}=useFetch('/api/leaderboard',60000);
  const notify=m=>{sToast(m);setTimeout(()=>sToast(''),4000)};
  const toggle=()=>post('/api/settings/numbers').then(()=>{rS();rP()});
  const checkin=()=>post('/api/checkin').then(r=>{rSt();notify(r.error?r.error:('+'+r.earned+' points'))});
  const remove=k=>post('/api/wallets/remove',{key:k}).then(()=>{rW();notify('Wallet removed')});
  const vis=settings?settings.numbers_visible:true;

  return<div className="app">
    <div className="hdr">
      <div style={{display:'flex',alignItems:'center'}}><h1>💼 Wallet Dash</h1><span className="live">LIVE</span></div>
      <div style={{display:'flex',gap:8}}>
        <button className="btn btn-s" onClick={toggle}>{vis?'🙈 Hide numbers':'👁 Show numbers'}</button>
        <button className="btn btn-p" onClick={checkin}>✅ Check in</button>
        <button className="btn btn-a" onClick={()=>sShowAdd(true)}>+ Add Wallet</button>
      </div>
    </div>
    <div className="sts">
      <div className="st"><div className="v g">{pf?pf.total:'-'}</div><div className="l">Portfolio</div></div>
      <div className="st"><div className="v b">{wallets?wallets.length:0}</div><div className="l">Wallets</div></div>
      <div className="st"><div className="v o">{st?st.current:0}</div><div className="l">Streak ({st?st.status:'-'})</div></div>
      <div className="st"><div className="v p">{st?st.total_points:0}</div><div className="l">Points</div></div>
    </div>
    <Chart subject={subject} visible={vis}/>
    <div className="gr2">
      <div className="pn"><div className="pn-h"><h2>👛 Holdings</h2></div><div className="pn-b scy">
        {!pf||!pf.holdings.length?<div className="emp"><div className="ic">👛</div>No holdings yet</div>:
        <table><thead><tr><th>Wallet</th><th>Chain</th><th>Balance</th><th>Value</th><th></th></tr></thead><tbody>
        {pf.holdings.map(h=><tr key={h.key}>
          <td><span className="addr" onClick={()=>sSubject(h.address)}>{h.label||ab(h.address)}</span></td>
          <td>{CB(h.chain)}</td><td>{h.error?'err':h.balance+' '+h.symbol}</td><td>{h.value}</td>
          <td><button className="btn btn-s" onClick={()=>remove(h.key)}>✕</button></td></tr>)}
        </tbody></table>}
        {subject!=='portfolio'&&<div className="hint"><span className="addr" onClick={()=>sSubject('portfolio')}>← back to portfolio</span></div>}
      </div></div>
      <div className="pn"><div className="pn-h"><h2>🏆 Leaderboard</h2></div><div className="pn-b scy">
        {!lb||!lb.length?<div className="emp">No entries</div>:
        <table><thead><tr><th>#</th><th>Address</th><th>Points</th><th>Streak</th></tr></thead><tbody>
        {lb.map(e=><tr key={e.rank}><td>{e.rank}</td><td className="addr">{ab(e.address)}</td><td>{e.points}</td><td>{e.streak}</td></tr>)}
        </tbody></table>}
      </div></div>
    </div>
    {showAdd&&<AddWalletModal onClose={()=>sShowAdd(false)} onAdded={()=>{sShowAdd(false);rW();notify('Wallet added. It is valued on the next snapshot.')}}/>}
    {toast&&<div className="toast">{toast}</div>}
  </div>
}

function AddWalletModal({onClose,onAdded}){
  const[addr,sAddr]=useState(''),[chain,sChain]=useState(''),[label,sLabel]=useState(''),[err,sErr]=useState('');
  const submit=()=>post('/api/wallets/add',{address:addr,chain,label}).then(r=>{if(r.error){sErr(r.error);return}onAdded()});
  return<div className="mo" onClick={onClose}><div className="md" onClick={e=>e.stopPropagation()}>
    <h2>Add Wallet</h2>
    <div className="fg"><label>Address</label><input value={addr} onChange={e=>sAddr(e.target.value)} placeholder="0x... or base58"/></div>
    <div className="fg"><label>Chain</label><select value={chain} onChange={e=>sChain(e.target.value)}>
      <option value="">auto</option><option value="solana">solana</option><option value="ethereum">ethereum</option><option value="base">base</option><option value="bsc">bsc</option></select></div>
    <div className="fg"><label>Label</label><input value={label} onChange={e=>sLabel(e.target.value)} placeholder="optional"/></div>
    {err&&<div className="hint" style={{color:'var(--rd)'}}>{err}</div>}
    <div className="btn-r"><button className="btn btn-s" onClick={onClose}>Cancel</button><button className="btn btn-p" onClick={submit}>Add</button></div>
  </div></div>
}

ReactDOM.createRoot(document.getElementById('root')).render(<App/>);
</script></body></html>`
