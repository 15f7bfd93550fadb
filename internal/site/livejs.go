package site

import "fmt"

// ScriptSteps is the number of intersection ratio steps the browser
// reports between 0 and 1.
const ScriptSteps = 20

// GenerateLiveScript generates live.js. The script opens a websocket to
// livePath, reports region mounts, intersection ratios, carousel clicks
// and newsletter submissions, and applies the state frames it receives.
// If the socket cannot be opened every animated element is shown.
func GenerateLiveScript(livePath string) string {
	return fmt.Sprintf(`(function(){
  var P='%s',N=%d;
  var root=document.documentElement,body=document.body;

  var toggle=document.querySelector('[data-menu-toggle]');
  if(toggle)toggle.addEventListener('click',function(){body.classList.toggle('menu-open');});

  if(!('WebSocket' in window)||!('IntersectionObserver' in window)){root.classList.add('no-live');return;}

  var page=body.dataset.page||'home';
  var proto=location.protocol==='https:'?'wss:':'ws:';
  var ws=new WebSocket(proto+'//'+location.host+P+'?page='+encodeURIComponent(page));
  var opened=false;

  function send(m){if(ws.readyState===1)ws.send(JSON.stringify(m));}

  var steps=[];for(var i=0;i<=N;i++)steps.push(i/N);
  var io=new IntersectionObserver(function(entries){
    entries.forEach(function(e){
      send({type:'intersect',region:e.target.dataset.region,ratio:e.intersectionRatio});
    });
  },{threshold:steps});

  var regions=document.querySelectorAll('[data-region]');
  ws.onopen=function(){
    opened=true;
    regions.forEach(function(el){send({type:'mount',region:el.dataset.region});io.observe(el);});
  };
  ws.onclose=function(){io.disconnect();if(!opened)root.classList.add('no-live');};

  document.querySelectorAll('[data-nav]').forEach(function(b){
    b.addEventListener('click',function(){send({type:'nav',dir:b.dataset.nav});});
  });

  var form=document.querySelector('[data-newsletter]');
  if(form)form.addEventListener('submit',function(ev){
    if(ws.readyState!==1)return;
    ev.preventDefault();
    var input=form.querySelector('input[type=email]');
    send({type:'subscribe',email:input.value});
    input.value='';
  });

  var messages={success:'Thanks for subscribing!',error:'Something went wrong. Please try again.'};

  function apply(s){
    Object.keys(s.reveal||{}).forEach(function(r){
      var el=document.querySelector('[data-region="'+r+'"]');
      if(!el)return;
      var items=el.querySelectorAll('[data-reveal]');
      s.reveal[r].forEach(function(on,i){if(items[i])items[i].classList.toggle('revealed',on);});
    });
    (s.counters||[]).forEach(function(v,i){
      var c=document.querySelector('[data-counter="'+i+'"]');
      if(c)c.textContent=v;
    });
    var c=s.carousel,t=document.querySelector('[data-carousel-track]');
    if(c&&t){
      if(c.mode==='scroll')t.parentNode.scrollTo({left:c.scroll_left||0,behavior:'smooth'});
      // One page is the window width plus the 16px gap after its last slide.
      else t.style.transform='translateX(calc(-'+c.page+' * (100%% + 16px)))';
    }
    Object.keys(s.intro||{}).forEach(function(n){
      var el=document.querySelector('[data-intro="'+n+'"]');
      if(el)el.classList.toggle('revealed',s.intro[n]);
    });
    var f=document.querySelector('[data-flash]');
    if(f){f.dataset.flash=s.flash||'';f.textContent=messages[s.flash]||'';}
  }

  ws.onmessage=function(ev){
    var f;
    try{f=JSON.parse(ev.data);}catch(e){return;}
    if(f.type==='state'&&f.state)apply(f.state);
  };

  window.addEventListener('pagehide',function(){
    regions.forEach(function(el){send({type:'unmount',region:el.dataset.region});});
    ws.close();
  });
})();`, livePath, ScriptSteps)
}
